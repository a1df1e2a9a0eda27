// Package storage provides the persistence collaborator for splitit.
//
// Records are kept as whole JSON collections in a key-value store: every write
// replaces a full collection and every read returns one. Backends implement KV;
// Repository layers the group, expense, app state and user collections on top.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// Fixed keys of the persisted collections.
const (
	KeyGroups   = "split_it_groups"
	KeyExpenses = "split_it_expenses"
	KeyAppState = "split_it_app_state"
	KeyUsers    = "split_it_users"
)

// AllKeys lists every key ClearAll removes.
var AllKeys = []string{KeyGroups, KeyExpenses, KeyAppState, KeyUsers}

//go:generate mockgen -source=store.go -destination=mocks/mock_kv.go -package=mocks

// KV defines the interface for durable key-value storage.
// This abstraction allows swapping storage backends (memory, SQLite, Redis)
// without changing the repository or service layers.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close releases any resources held by the store.
	Close() error
}
