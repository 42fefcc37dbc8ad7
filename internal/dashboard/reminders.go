package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
)

// AddReminder pins a free-text reminder stamped with the local wall-clock time.
func (s *Service) AddReminder(ctx context.Context, text string) (models.Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Reminder{}, fmt.Errorf("%w: reminder text cannot be empty", ErrInvalidInput)
	}

	r := models.Reminder{Text: text, Time: s.now().Format(constants.ClockFormat)}
	err := s.state.Update(ctx, []string{constants.KeyReminders}, func(doc *models.Document) error {
		r.ID = s.newID(func(id int64) bool {
			for _, existing := range doc.Reminders {
				if existing.ID == id {
					return true
				}
			}
			return false
		})
		doc.Reminders = append(doc.Reminders, r)
		return nil
	})
	return r, err
}

func (s *Service) Reminders() []models.Reminder {
	return s.state.Snapshot().Reminders
}
