package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/models"
)

// AddCitation stores a citation and copies its text to the clipboard.
// The clipboard copy is best effort.
func (s *Service) AddCitation(ctx context.Context, source string, format models.CitationFormat) (models.Citation, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return models.Citation{}, fmt.Errorf("%w: citation source cannot be empty", ErrInvalidInput)
	}
	if format != models.FormatAPA && format != models.FormatMLA {
		return models.Citation{}, fmt.Errorf("%w: unknown citation format %q", ErrInvalidInput, format)
	}

	c := models.Citation{Source: source, Format: format, Text: models.FormatCitation(source, format)}
	err := s.state.Update(ctx, []string{constants.KeyCitations}, func(doc *models.Document) error {
		c.ID = s.newID(func(id int64) bool {
			for _, existing := range doc.Citations {
				if existing.ID == id {
					return true
				}
			}
			return false
		})
		doc.Citations = append(doc.Citations, c)
		return nil
	})
	if err != nil {
		return c, err
	}

	if err := s.copy(c.Text); err != nil {
		logger.Warn("Failed to copy citation", "error", err)
	}
	return c, nil
}

// CopyCitation puts a stored citation's text on the clipboard.
func (s *Service) CopyCitation(id int64) (models.Citation, error) {
	for _, c := range s.state.Snapshot().Citations {
		if c.ID == id {
			return c, s.copy(c.Text)
		}
	}
	return models.Citation{}, fmt.Errorf("%w: citation %d not found", ErrInvalidInput, id)
}

func (s *Service) Citations() []models.Citation {
	return s.state.Snapshot().Citations
}

func (s *Service) copy(text string) error {
	if s.clip == nil {
		return nil
	}
	return s.clip.WriteAll(text)
}
