package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Backend. Setting Err makes every operation
// fail with it, which stands in for an unreachable synced store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
	Err    error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]json.RawMessage)}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *MemoryStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make(map[string]json.RawMessage)
	if len(keys) == 0 {
		for k, v := range m.values {
			out[k] = v
		}
		return out, nil
	}
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MemoryStore) Set(ctx context.Context, values map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for k, v := range values {
		m.values[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// SetErr switches failure mode on or off.
func (m *MemoryStore) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

var _ Backend = (*MemoryStore)(nil)
