package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore keeps every key in a single JSON file under the "unidashData"
// root object.
type JSONStore struct {
	path string

	mu     sync.Mutex
	values map[string]json.RawMessage
}

type jsonFile struct {
	Data map[string]json.RawMessage `json:"unidashData"`
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Name() string {
	return "json:" + s.path
}

func (s *JSONStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.values = make(map[string]json.RawMessage)
			return s.save()
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	var file jsonFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse storage %s: %w", s.path, err)
	}
	if file.Data == nil {
		file.Data = make(map[string]json.RawMessage)
	}
	s.values = file.Data
	return nil
}

func (s *JSONStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return nil, ErrNotInitialized
	}

	out := make(map[string]json.RawMessage)
	if len(keys) == 0 {
		for k, v := range s.values {
			out[k] = v
		}
		return out, nil
	}
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *JSONStore) Set(ctx context.Context, values map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return ErrNotInitialized
	}

	for k, v := range values {
		s.values[k] = v
	}
	return s.save()
}

func (s *JSONStore) Remove(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return ErrNotInitialized
	}

	for _, k := range keys {
		delete(s.values, k)
	}
	return s.save()
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temp file and renames it into place. Callers hold mu.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(jsonFile{Data: s.values}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

var _ Backend = (*JSONStore)(nil)
