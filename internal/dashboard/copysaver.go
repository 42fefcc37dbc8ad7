package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/julianstephens/unidash/internal/clipboard"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/storage"
)

// StageCopied keeps a copy for the copy saver to offer later. Short copies
// are ignored.
func (s *Service) StageCopied(ctx context.Context, text string) (bool, error) {
	if !clipboard.Worth(text) {
		return false, nil
	}
	if err := s.local.SetLocal(ctx, constants.KeyCopiedText, text); err != nil {
		return false, err
	}
	return true, nil
}

// PeekStaged returns the staged copy without clearing it.
func (s *Service) PeekStaged(ctx context.Context) (string, error) {
	var text string
	if err := s.local.GetLocal(ctx, constants.KeyCopiedText, &text); err != nil {
		if errors.Is(err, storage.ErrLocalKeyNotFound) {
			return "", ErrNothingStaged
		}
		return "", err
	}
	if !clipboard.Worth(text) {
		return "", ErrNothingStaged
	}
	return text, nil
}

// TakeStaged returns the staged copy and clears it.
func (s *Service) TakeStaged(ctx context.Context) (string, error) {
	text, err := s.PeekStaged(ctx)
	if err != nil {
		return "", err
	}
	if err := s.local.RemoveLocal(ctx, constants.KeyCopiedText); err != nil {
		return "", err
	}
	return text, nil
}

// SaveClipAsNote appends a note that belongs to no task.
func (s *Service) SaveClipAsNote(ctx context.Context, text string) (models.Note, error) {
	if text == "" {
		return models.Note{}, fmt.Errorf("%w: nothing to save", ErrInvalidInput)
	}
	n := models.Note{Content: text, Date: s.today(0)}
	err := s.state.Update(ctx, []string{constants.KeyNotes}, func(doc *models.Document) error {
		n.ID = s.newID(func(id int64) bool {
			for _, existing := range doc.Notes {
				if existing.ID == id {
					return true
				}
			}
			return false
		})
		doc.Notes = append(doc.Notes, n)
		return nil
	})
	return n, err
}

// SearchURL is the web search link for text.
func SearchURL(text string) string {
	return constants.SearchURLPrefix + url.QueryEscape(text)
}
