package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotInitialized is returned by backends used before Init.
var ErrNotInitialized = errors.New("storage not initialized")

// Backend is a key/value store of raw JSON values. The synced store and the
// local mirror both implement it.
type Backend interface {
	// Name identifies the backend in logs and doctor output. It must not
	// contain credentials.
	Name() string
	Init(ctx context.Context) error
	// Get returns the stored values for keys, or every stored value when no
	// keys are given. Absent keys are omitted from the result.
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, values map[string]json.RawMessage) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}
