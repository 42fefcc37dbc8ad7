package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/stats"
)

// TaskPatch holds the fields to change; nil fields are left alone.
type TaskPatch struct {
	Title     *string
	Due       *string
	Priority  *models.Priority
	Category  *models.Category
	Completed *bool
}

// AddTask validates and stores a new task and registers its deadline alarm.
func (s *Service) AddTask(ctx context.Context, t models.Task) (models.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if err := t.Validate(); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	t.ApplyDefaults()
	t.Completed = false

	err := s.state.Update(ctx, []string{constants.KeyTasks}, func(doc *models.Document) error {
		t.ID = s.newID(func(id int64) bool {
			_, ok := doc.TaskByID(id)
			return ok
		})
		doc.Tasks = append(doc.Tasks, t)
		return nil
	})
	if err != nil {
		return t, err
	}

	s.scheduleDeadline(ctx, t)
	return t, nil
}

// QuickAdd creates a task from a title alone, due in seven days.
func (s *Service) QuickAdd(ctx context.Context, title string) (models.Task, error) {
	return s.AddTask(ctx, models.Task{
		Title:    title,
		Due:      s.today(constants.QuickAddDueIn),
		Priority: models.PriorityMedium,
		Category: models.CategoryWork,
	})
}

// Task returns one task.
func (s *Service) Task(id int64) (models.Task, error) {
	t, ok := s.state.Snapshot().TaskByID(id)
	if !ok {
		return models.Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	return t, nil
}

// Tasks returns the tasks matching query, ordered by due date.
func (s *Service) Tasks(query string) []models.Task {
	return stats.SortByDue(stats.Filter(s.state.Snapshot().Tasks, query))
}

// ToggleTask flips the completed flag.
func (s *Service) ToggleTask(ctx context.Context, id int64) (models.Task, error) {
	var out models.Task
	err := s.mutateTask(ctx, id, func(t *models.Task) error {
		t.Completed = !t.Completed
		out = *t
		return nil
	})
	return out, err
}

// UpdateTask applies patch and re-registers the deadline alarm when the
// due date changed.
func (s *Service) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (models.Task, error) {
	var (
		out        models.Task
		dueChanged bool
	)
	err := s.mutateTask(ctx, id, func(t *models.Task) error {
		next := *t
		if patch.Title != nil {
			next.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Due != nil {
			dueChanged = *patch.Due != next.Due
			next.Due = *patch.Due
		}
		if patch.Priority != nil {
			next.Priority = *patch.Priority
		}
		if patch.Category != nil {
			next.Category = *patch.Category
		}
		if patch.Completed != nil {
			next.Completed = *patch.Completed
		}
		if err := next.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTask, err)
		}
		*t = next
		out = next
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	if dueChanged {
		s.scheduleDeadline(ctx, out)
	}
	return out, nil
}

// SnoozeTask moves the due date to tomorrow and re-registers the alarm.
func (s *Service) SnoozeTask(ctx context.Context, id int64) (models.Task, error) {
	due := s.today(constants.SnoozeFor)
	return s.UpdateTask(ctx, id, TaskPatch{Due: &due})
}

// DeleteTask removes the task and its deadline alarm. Sessions and notes
// that reference it are kept.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	err := s.state.Update(ctx, []string{constants.KeyTasks}, func(doc *models.Document) error {
		n := len(doc.Tasks)
		doc.Tasks = slices.DeleteFunc(doc.Tasks, func(t models.Task) bool { return t.ID == id })
		if len(doc.Tasks) == n {
			return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.clearAlarm(ctx, alarms.DeadlineName(id))
	return nil
}

func (s *Service) mutateTask(ctx context.Context, id int64, fn func(t *models.Task) error) error {
	return s.state.Update(ctx, []string{constants.KeyTasks}, func(doc *models.Document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID == id {
				return fn(&doc.Tasks[i])
			}
		}
		return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	})
}

func (s *Service) scheduleDeadline(ctx context.Context, t models.Task) {
	due, err := t.DueDate()
	if err != nil {
		return
	}
	s.scheduleAlarm(ctx, alarms.DeadlineName(t.ID), alarms.DeadlineAt(due))
}
