package dashboard

import (
	"context"
	"fmt"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
)

// AppendSession adds an entry to the time log.
func (s *Service) AppendSession(ctx context.Context, session models.TimeSession) error {
	return s.state.Update(ctx, []string{constants.KeyTimeSessions}, func(doc *models.Document) error {
		doc.TimeSessions = append(doc.TimeSessions, session)
		return nil
	})
}

func (s *Service) Sessions() []models.TimeSession {
	return s.state.Snapshot().TimeSessions
}

// Settings returns the timer settings with defaults applied.
func (s *Service) Settings() models.Settings {
	settings := s.state.Snapshot().Settings
	models.ApplyDefaultSettings(&settings)
	return settings
}

// UpdateSettings applies key/value pairs such as pomodoro_length=50.
func (s *Service) UpdateSettings(ctx context.Context, values map[string]string) (models.Settings, error) {
	patch, err := models.MapToSettings(values)
	if err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var out models.Settings
	err = s.state.Update(ctx, []string{constants.KeySettings}, func(doc *models.Document) error {
		if _, ok := values[constants.SettingPomodoroLength]; ok {
			if patch.PomodoroLength <= 0 {
				return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, constants.SettingPomodoroLength)
			}
			doc.Settings.PomodoroLength = patch.PomodoroLength
		}
		if _, ok := values[constants.SettingBreakLength]; ok {
			if patch.BreakLength <= 0 {
				return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, constants.SettingBreakLength)
			}
			doc.Settings.BreakLength = patch.BreakLength
		}
		out = doc.Settings
		return nil
	})
	return out, err
}

// PatchDocument overwrites whole keys from a partial document, the way an
// extension surface saves. Task additions made this way get their deadline
// alarms and a replaced timetable gets its class reminders.
func (s *Service) PatchDocument(ctx context.Context, patch models.Document, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	var before models.Document
	err := s.state.Update(ctx, keys, func(doc *models.Document) error {
		before = doc.Clone()
		encoded, err := patch.Encode(keys...)
		if err != nil {
			return err
		}
		return doc.Merge(encoded)
	})
	if err != nil {
		return err
	}

	after := s.state.Snapshot()
	for _, k := range keys {
		switch k {
		case constants.KeyTasks:
			s.rescheduleTasks(ctx, before.Tasks, after.Tasks)
		case constants.KeyTimetable:
			for _, key := range before.Timetable.Occupied() {
				if after.Timetable.Subject(key) == "" {
					s.clearAlarm(ctx, alarms.TimetableName(key))
				}
			}
			s.ScheduleClasses(ctx, after.Timetable)
		}
	}
	return nil
}

func (s *Service) rescheduleTasks(ctx context.Context, before, after []models.Task) {
	old := make(map[int64]string, len(before))
	for _, t := range before {
		old[t.ID] = t.Due
	}
	for _, t := range after {
		if due, ok := old[t.ID]; !ok || due != t.Due {
			s.scheduleDeadline(ctx, t)
		}
		delete(old, t.ID)
	}
	for id := range old {
		s.clearAlarm(ctx, alarms.DeadlineName(id))
	}
}
