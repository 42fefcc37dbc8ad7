package dashboard

import (
	"context"
	"fmt"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
)

// SaveNote stores the note for a task, replacing any existing note for the
// same task.
func (s *Service) SaveNote(ctx context.Context, taskID int64, content string, progress int) (models.Note, error) {
	note := models.Note{TaskID: taskID, Content: content, Progress: progress}
	if err := note.Validate(); err != nil {
		return models.Note{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !note.Attached() {
		return models.Note{}, fmt.Errorf("%w: a note needs a task", ErrInvalidInput)
	}

	err := s.state.Update(ctx, []string{constants.KeyNotes}, func(doc *models.Document) error {
		for i := range doc.Notes {
			if doc.Notes[i].TaskID == taskID {
				doc.Notes[i] = note
				return nil
			}
		}
		doc.Notes = append(doc.Notes, note)
		return nil
	})
	return note, err
}

// NoteFor returns the note attached to a task.
func (s *Service) NoteFor(taskID int64) (models.Note, bool) {
	for _, n := range s.state.Snapshot().Notes {
		if n.TaskID == taskID && n.Attached() {
			return n, true
		}
	}
	return models.Note{}, false
}

// Notes returns every note, clip notes included.
func (s *Service) Notes() []models.Note {
	return s.state.Snapshot().Notes
}
