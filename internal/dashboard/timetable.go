package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/timetable"
)

// SetSlot sets or clears (empty subject) one slot and saves the timetable.
func (s *Service) SetSlot(ctx context.Context, day, timeLabel, subject string) error {
	if !timetable.ValidSlot(day, timeLabel) {
		return fmt.Errorf("%w: unknown slot %s %s", ErrInvalidInput, day, timeLabel)
	}
	tt := s.state.Snapshot().Timetable.Clone()
	key := timetable.SlotKey(day, timeLabel)
	if strings.TrimSpace(subject) == "" {
		delete(tt.Slots, key)
	} else {
		tt.Slots[key] = strings.TrimSpace(subject)
	}
	return s.SaveTimetable(ctx, tt)
}

// SaveTimetable replaces the whole timetable and re-registers class
// reminders: one per occupied weekday slot. Slots that were occupied
// before and are now empty lose their alarm.
func (s *Service) SaveTimetable(ctx context.Context, tt models.Timetable) error {
	for key := range tt.Slots {
		day, label, ok := timetable.SplitSlotKey(key)
		if !ok || !timetable.ValidSlot(day, label) {
			return fmt.Errorf("%w: unknown slot %q", ErrInvalidInput, key)
		}
	}

	var previous models.Timetable
	err := s.state.Update(ctx, []string{constants.KeyTimetable}, func(doc *models.Document) error {
		previous = doc.Timetable.Clone()
		doc.Timetable = tt.Clone()
		return nil
	})
	if err != nil {
		return err
	}

	for _, key := range previous.Occupied() {
		if strings.TrimSpace(tt.Subject(key)) == "" {
			s.clearAlarm(ctx, alarms.TimetableName(key))
		}
	}
	s.ScheduleClasses(ctx, tt)
	return nil
}

// ScheduleClasses registers the reminder for every occupied weekday slot.
func (s *Service) ScheduleClasses(ctx context.Context, tt models.Timetable) int {
	now := s.now()
	n := 0
	for _, key := range tt.Occupied() {
		day, label, ok := timetable.SplitSlotKey(key)
		if !ok || !timetable.IsWeekday(day) {
			continue
		}
		at, err := timetable.ReminderAt(now, day, label, s.policy)
		if err != nil {
			continue
		}
		s.scheduleAlarm(ctx, alarms.TimetableName(key), at)
		n++
	}
	return n
}

func (s *Service) Timetable() models.Timetable {
	return s.state.Snapshot().Timetable
}
