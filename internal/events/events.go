// Package events announces data changes so presentation clients know to pull
// a fresh snapshot.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// TypeGroupChanged is published after any mutation of a group or its expenses.
const TypeGroupChanged = "group.changed"

// Event is a lightweight change notification. It carries no balances; readers
// fetch the group again.
type Event struct {
	Type      string    `json:"type"`
	GroupID   string    `json:"groupId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// GroupChanged builds a group.changed event for the given action.
func GroupChanged(groupID, action string) Event {
	return Event{
		Type:      TypeGroupChanged,
		GroupID:   groupID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers change events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
