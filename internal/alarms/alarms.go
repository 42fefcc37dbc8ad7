// Package alarms keeps named one-shot alarms and fires them once their time
// has come.
package alarms

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/storage"
)

// Alarm is one registration. Re-creating a name replaces the registration.
type Alarm struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	When    time.Time `json:"when"`
	Created time.Time `json:"created"`
}

// Scheduler registers and clears alarms by name.
type Scheduler interface {
	Create(ctx context.Context, name string, when time.Time) error
	Clear(ctx context.Context, name string) error
}

// LocalStore holds device-only values. *storage.Store implements it.
type LocalStore interface {
	GetLocal(ctx context.Context, key string, v any) error
	SetLocal(ctx context.Context, key string, v any) error
}

// Registry is a Scheduler persisted under the local "alarms" key so the
// daemon sees alarms created by other commands.
type Registry struct {
	mu    sync.Mutex
	store LocalStore
	now   func() time.Time
}

func NewRegistry(store LocalStore) *Registry {
	return &Registry{store: store, now: time.Now}
}

func (r *Registry) load(ctx context.Context) ([]Alarm, error) {
	var list []Alarm
	if err := r.store.GetLocal(ctx, constants.KeyAlarms, &list); err != nil {
		if errors.Is(err, storage.ErrLocalKeyNotFound) {
			return []Alarm{}, nil
		}
		return nil, fmt.Errorf("failed to read alarms: %w", err)
	}
	return list, nil
}

func (r *Registry) save(ctx context.Context, list []Alarm) error {
	if err := r.store.SetLocal(ctx, constants.KeyAlarms, list); err != nil {
		return fmt.Errorf("failed to write alarms: %w", err)
	}
	return nil
}

func (r *Registry) Create(ctx context.Context, name string, when time.Time) error {
	if name == "" {
		return errors.New("alarm name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	list = slices.DeleteFunc(list, func(a Alarm) bool { return a.Name == name })
	list = append(list, Alarm{
		ID:      uuid.NewString(),
		Name:    name,
		When:    when.UTC(),
		Created: r.now().UTC(),
	})
	return r.save(ctx, list)
}

func (r *Registry) Clear(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	n := len(list)
	list = slices.DeleteFunc(list, func(a Alarm) bool { return a.Name == name })
	if len(list) == n {
		return nil
	}
	return r.save(ctx, list)
}

// List returns every pending alarm ordered by time.
func (r *Registry) List(ctx context.Context) ([]Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b Alarm) int { return a.When.Compare(b.When) })
	return list, nil
}

// TakeDue removes and returns the alarms whose time is at or before now.
// A taken alarm is never returned again.
func (r *Registry) TakeDue(ctx context.Context, now time.Time) ([]Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var due, pending []Alarm
	for _, a := range list {
		if a.When.After(now) {
			pending = append(pending, a)
		} else {
			due = append(due, a)
		}
	}
	if len(due) == 0 {
		return nil, nil
	}
	if pending == nil {
		pending = []Alarm{}
	}
	if err := r.save(ctx, pending); err != nil {
		return nil, err
	}
	slices.SortFunc(due, func(a, b Alarm) int { return a.When.Compare(b.When) })
	return due, nil
}

var _ Scheduler = (*Registry)(nil)

// Kind tells what an alarm name refers to.
type Kind int

const (
	KindUnknown Kind = iota
	KindDeadline
	KindTimetable
)

func (k Kind) String() string {
	switch k {
	case KindDeadline:
		return "deadline"
	case KindTimetable:
		return "timetable"
	}
	return "unknown"
}

// DeadlineName is the alarm for a task's due date, "deadline-{taskId}".
func DeadlineName(taskID int64) string {
	return constants.DeadlineAlarmPrefix + strconv.FormatInt(taskID, 10)
}

// TimetableName is the alarm for a class slot, "timetable-{day}-{time}".
func TimetableName(slotKey string) string {
	return constants.TimetableAlarmPrefix + slotKey
}

// ParseName splits an alarm name into its kind and the remainder: the task
// id for deadlines and the slot key for timetable alarms.
func ParseName(name string) (Kind, string) {
	if rest, ok := strings.CutPrefix(name, constants.DeadlineAlarmPrefix); ok {
		return KindDeadline, rest
	}
	if rest, ok := strings.CutPrefix(name, constants.TimetableAlarmPrefix); ok {
		return KindTimetable, rest
	}
	return KindUnknown, name
}

// DeadlineAt is when a deadline alarm fires: one day before the due date.
func DeadlineAt(due time.Time) time.Time {
	return due.Add(-constants.DeadlineLead)
}
