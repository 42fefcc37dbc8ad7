package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/models"
)

// Store reads and writes the document through the synced backend and
// mirrors every write to the local backend. The local backend also holds
// the device-only keys.
type Store struct {
	local  Backend
	synced Backend // nil when no synced store is configured

	syncedUp bool
}

// New returns a Store. synced may be nil.
func New(local Backend, synced Backend) *Store {
	return &Store{local: local, synced: synced}
}

// Init prepares both backends. A synced backend that fails to initialize is
// logged and skipped for the rest of the process; the local backend must
// succeed.
func (s *Store) Init(ctx context.Context) error {
	if err := s.local.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize local store %s: %w", s.local.Name(), err)
	}
	if s.synced == nil {
		return nil
	}
	if err := s.synced.Init(ctx); err != nil {
		logger.Warn("Synced store unavailable, using local store only", "backend", s.synced.Name(), "error", err)
		return nil
	}
	s.syncedUp = true
	return nil
}

// Synced reports whether reads and writes currently reach the synced store.
func (s *Store) Synced() bool {
	return s.syncedUp
}

// Local returns the local backend.
func (s *Store) Local() Backend {
	return s.local
}

// Backends names the configured backends, synced first.
func (s *Store) Backends() []string {
	names := []string{}
	if s.synced != nil {
		names = append(names, s.synced.Name())
	}
	return append(names, s.local.Name())
}

// Load reads every document key. Keys the synced store does not hold are
// taken from the local mirror; when the synced store fails the whole
// document comes from the local mirror.
func (s *Store) Load(ctx context.Context) (models.Document, error) {
	localRaw, localErr := s.local.Get(ctx, constants.DocumentKeys...)

	raw := map[string]json.RawMessage{}
	if s.syncedUp {
		syncedRaw, err := s.synced.Get(ctx, constants.DocumentKeys...)
		if err != nil {
			logger.Warn("Failed to read synced store, falling back to local store", "error", err)
		} else {
			raw = syncedRaw
		}
	}

	if localErr != nil {
		if len(raw) == 0 {
			return models.Document{}, fmt.Errorf("failed to read local store: %w", localErr)
		}
		logger.Warn("Failed to read local store", "error", localErr)
	}
	for k, v := range localRaw {
		if _, ok := raw[k]; !ok {
			raw[k] = v
		}
	}

	doc, err := models.DecodeDocument(raw)
	if err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// Save writes the named keys of doc, or all keys when none are given. A
// failed synced write is logged; only a failed local write is returned.
func (s *Store) Save(ctx context.Context, doc models.Document, keys ...string) error {
	for _, k := range keys {
		if !models.IsDocumentKey(k) {
			return fmt.Errorf("unknown document key: %s", k)
		}
	}

	values, err := doc.Encode(keys...)
	if err != nil {
		return err
	}

	if s.syncedUp {
		if err := s.synced.Set(ctx, values); err != nil {
			logger.Warn("Failed to write synced store", "keys", keys, "error", err)
		}
	}
	if err := s.local.Set(ctx, values); err != nil {
		return fmt.Errorf("failed to write local store: %w", err)
	}
	return nil
}

// ErrLocalKeyNotFound is returned by GetLocal for an absent key.
var ErrLocalKeyNotFound = errors.New("local key not found")

// GetLocal decodes a device-only key into v.
func (s *Store) GetLocal(ctx context.Context, key string, v any) error {
	raw, err := s.local.Get(ctx, key)
	if err != nil {
		return err
	}
	data, ok := raw[key]
	if !ok || string(data) == "null" {
		return ErrLocalKeyNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// SetLocal encodes v under a device-only key.
func (s *Store) SetLocal(ctx context.Context, key string, v any) error {
	if models.IsDocumentKey(key) {
		return fmt.Errorf("%s is a synced key", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.local.Set(ctx, map[string]json.RawMessage{key: data})
}

// RemoveLocal deletes device-only keys.
func (s *Store) RemoveLocal(ctx context.Context, keys ...string) error {
	return s.local.Remove(ctx, keys...)
}

func (s *Store) Close() error {
	var errs []error
	if s.synced != nil {
		errs = append(errs, s.synced.Close())
	}
	errs = append(errs, s.local.Close())
	return errors.Join(errs...)
}
