// Package state owns the in-memory copy of the document shared by every
// surface of a process.
package state

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/models"
)

// Persister loads and saves the document. *storage.Store implements it.
type Persister interface {
	Load(ctx context.Context) (models.Document, error)
	Save(ctx context.Context, doc models.Document, keys ...string) error
}

// Change is published after the document changed. Doc is a private copy.
type Change struct {
	Keys []string
	Doc  models.Document
}

type Store struct {
	persister Persister

	mu     sync.RWMutex
	doc    models.Document
	loaded bool

	subMu  sync.Mutex
	subs   map[int]func(Change)
	nextID int
}

func New(p Persister) *Store {
	return &Store{
		persister: p,
		doc:       models.NewDocument(),
		subs:      make(map[int]func(Change)),
	}
}

// Load replaces the in-memory document with the persisted one.
func (s *Store) Load(ctx context.Context) error {
	doc, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	s.mu.Lock()
	s.doc = doc
	s.loaded = true
	snapshot := s.doc.Clone()
	s.mu.Unlock()

	s.publish(Change{Keys: slices.Clone(constants.DocumentKeys), Doc: snapshot})
	return nil
}

// Loaded reports whether Load has succeeded at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns a copy of the current document.
func (s *Store) Snapshot() models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Update applies fn to a working copy and, when fn succeeds, makes the copy
// current and saves the named keys. A failed save is returned but the
// in-memory document keeps the update until the next successful save.
func (s *Store) Update(ctx context.Context, keys []string, fn func(doc *models.Document) error) error {
	for _, k := range keys {
		if !models.IsDocumentKey(k) {
			return fmt.Errorf("unknown document key: %s", k)
		}
	}

	s.mu.Lock()
	working := s.doc.Clone()
	if err := fn(&working); err != nil {
		s.mu.Unlock()
		return err
	}
	working.Normalize()
	s.doc = working
	saveErr := s.persister.Save(ctx, working, keys...)
	snapshot := s.doc.Clone()
	s.mu.Unlock()

	if saveErr != nil {
		logger.Error("Failed to persist document", "keys", keys, "error", saveErr)
		saveErr = fmt.Errorf("failed to save %v: %w", keys, saveErr)
	}

	s.publish(Change{Keys: slices.Clone(keys), Doc: snapshot})
	return saveErr
}

// Refresh reloads the document and publishes the keys whose stored value
// differs from memory. Another process may have written them.
func (s *Store) Refresh(ctx context.Context) ([]string, error) {
	fresh, err := s.persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload document: %w", err)
	}

	s.mu.Lock()
	changed, err := diffKeys(s.doc, fresh)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.doc = fresh
	s.loaded = true
	snapshot := s.doc.Clone()
	s.mu.Unlock()

	if len(changed) > 0 {
		s.publish(Change{Keys: changed, Doc: snapshot})
	}
	return changed, nil
}

func diffKeys(a, b models.Document) ([]string, error) {
	encA, err := a.Encode()
	if err != nil {
		return nil, err
	}
	encB, err := b.Encode()
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, k := range constants.DocumentKeys {
		if !bytes.Equal(encA[k], encB[k]) {
			changed = append(changed, k)
		}
	}
	return changed, nil
}

// Subscribe registers fn for every future change. fn runs on the goroutine
// that made the change and must not call Update.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(Change{Keys: slices.Clone(c.Keys), Doc: c.Doc.Clone()})
	}
}
