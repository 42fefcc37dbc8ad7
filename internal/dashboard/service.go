// Package dashboard implements the user-facing operations on the document.
// Every surface (CLI, TUI, HTTP bridge) goes through a Service.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/clipboard"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/state"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidTask   = errors.New("invalid task")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNothingStaged = errors.New("no copied text staged")
)

// LocalStore holds device-only values. *storage.Store implements it.
type LocalStore interface {
	GetLocal(ctx context.Context, key string, v any) error
	SetLocal(ctx context.Context, key string, v any) error
	RemoveLocal(ctx context.Context, keys ...string) error
}

type Deps struct {
	State  *state.Store
	Alarms alarms.Scheduler
	Local  LocalStore
	// Clipboard may be nil; copying is then skipped.
	Clipboard      clipboard.Clipboard
	ReminderPolicy string
	Now            func() time.Time
}

type Service struct {
	state  *state.Store
	alarms alarms.Scheduler
	local  LocalStore
	clip   clipboard.Clipboard
	policy string
	now    func() time.Time
}

func New(d Deps) *Service {
	s := &Service{
		state:  d.State,
		alarms: d.Alarms,
		local:  d.Local,
		clip:   d.Clipboard,
		policy: d.ReminderPolicy,
		now:    d.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.policy == "" {
		s.policy = constants.ReminderPolicyOffset
	}
	return s
}

// Document returns a copy of the current document.
func (s *Service) Document() models.Document {
	return s.state.Snapshot()
}

// State exposes the underlying store for subscribers.
func (s *Service) State() *state.Store {
	return s.state
}

// newID returns a millisecond timestamp id not used by any existing entry.
func (s *Service) newID(taken func(int64) bool) int64 {
	id := s.now().UnixMilli()
	for taken(id) {
		id++
	}
	return id
}

// today is the current UTC calendar date offset by d.
func (s *Service) today(d time.Duration) string {
	return s.now().Add(d).UTC().Format(constants.DateFormat)
}

// scheduleAlarm registers an alarm; failures are logged only.
func (s *Service) scheduleAlarm(ctx context.Context, name string, when time.Time) {
	if s.alarms == nil {
		return
	}
	if err := s.alarms.Create(ctx, name, when); err != nil {
		logger.Warn("Failed to schedule alarm", "alarm", name, "error", err)
	}
}

func (s *Service) clearAlarm(ctx context.Context, name string) {
	if s.alarms == nil {
		return
	}
	if err := s.alarms.Clear(ctx, name); err != nil {
		logger.Warn("Failed to clear alarm", "alarm", name, "error", err)
	}
}
