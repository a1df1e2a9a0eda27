// Package api defines the request and response messages of the splitit RPC
// services. Messages are plain structs carried as JSON.
package api

import (
	"encoding/json"
	"fmt"
)

// CodecName replaces connect's built-in "json" codec, which only accepts
// protobuf messages.
const CodecName = "json"

// JSONCodec marshals plain Go structs with encoding/json.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
