// Package timer implements the work/break session timer.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/models"
)

type Mode int

const (
	Work Mode = iota
	Break
)

func (m Mode) String() string {
	if m == Break {
		return "break"
	}
	return "work"
}

// SessionLog appends finished sessions to the time log.
type SessionLog interface {
	AppendSession(ctx context.Context, s models.TimeSession) error
}

// Status is a point-in-time view of the engine.
type Status struct {
	Running       bool   `json:"running"`
	Mode          string `json:"mode"`
	Elapsed       int    `json:"elapsed"` // seconds
	Target        int    `json:"target"`  // seconds
	Cycles        int    `json:"cycles"`
	TaskID        int64  `json:"taskId"`
	ResumePending bool   `json:"resumePending"`
}

// Event reports what a tick or stop produced.
type Event struct {
	// Session is the entry appended to the time log, if any.
	Session *models.TimeSession `json:"session,omitempty"`
	// Resume is set when a work interval ended and the break should start
	// after ResumeDelay.
	Resume bool `json:"resume"`
}

// Reached reports whether an interval of target seconds is over.
func Reached(elapsed, target int) bool {
	return elapsed >= target
}

// Target returns the interval length in seconds for a mode.
func Target(mode Mode, s models.Settings) int {
	models.ApplyDefaultSettings(&s)
	if mode == Break {
		return s.BreakLength * 60
	}
	return s.PomodoroLength * 60
}

type Option func(*Engine)

// WithClock replaces time.Now for session dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIntervals changes the tick interval and the auto-resume delay used by Run.
func WithIntervals(tick, resume time.Duration) Option {
	return func(e *Engine) {
		e.tickInterval = tick
		e.resumeDelay = resume
	}
}

// WithEventHook is called by Run after every tick that produced an event.
func WithEventHook(fn func(Event)) Option {
	return func(e *Engine) { e.onEvent = fn }
}

// Engine is the timer state machine. Its state is not persisted.
type Engine struct {
	log      SessionLog
	settings func() models.Settings
	now      func() time.Time
	onEvent  func(Event)

	tickInterval time.Duration
	resumeDelay  time.Duration

	mu            sync.Mutex
	running       bool
	mode          Mode
	elapsed       int
	cycles        int
	taskID        int64
	resumePending bool

	wake chan struct{}
}

func NewEngine(log SessionLog, settings func() models.Settings, opts ...Option) *Engine {
	e := &Engine{
		log:          log,
		settings:     settings,
		now:          time.Now,
		tickInterval: constants.TickInterval,
		resumeDelay:  constants.ResumeDelay,
		wake:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SelectTask sets the task new sessions are logged against. 0 means none.
func (e *Engine) SelectTask(id int64) {
	e.mu.Lock()
	e.taskID = id
	e.mu.Unlock()
}

// Start begins counting from zero in the current mode.
func (e *Engine) Start() {
	e.mu.Lock()
	e.running = true
	e.elapsed = 0
	e.resumePending = false
	e.mu.Unlock()
	e.signal()
}

// Pomodoro switches to work mode and starts.
func (e *Engine) Pomodoro() {
	e.mu.Lock()
	e.mode = Work
	e.mu.Unlock()
	e.Start()
}

// Resume starts the pending break. It does nothing when no resume is pending.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	if !e.resumePending {
		e.mu.Unlock()
		return false
	}
	e.resumePending = false
	e.running = true
	e.mu.Unlock()
	e.signal()
	return true
}

// Stop goes idle and cancels a pending resume. Time counted so far is
// logged as a manual session when a task is selected.
func (e *Engine) Stop(ctx context.Context) (Event, error) {
	e.mu.Lock()
	var session *models.TimeSession
	if e.elapsed > 0 && e.taskID != 0 {
		session = e.newSession(models.SessionManual)
	}
	e.running = false
	e.resumePending = false
	e.elapsed = 0
	e.mu.Unlock()
	e.signal()

	ev := Event{Session: session}
	if session != nil {
		if err := e.log.AppendSession(ctx, *session); err != nil {
			return ev, fmt.Errorf("failed to log session: %w", err)
		}
	}
	return ev, nil
}

// Tick advances a running timer by one second and ends the interval when
// its target is reached. Ticks while idle are ignored.
func (e *Engine) Tick(ctx context.Context) (Event, error) {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return Event{}, nil
	}

	e.elapsed++
	if !Reached(e.elapsed, Target(e.mode, e.settings())) {
		e.mu.Unlock()
		return Event{}, nil
	}

	e.running = false
	var ev Event
	if e.mode == Work {
		s := e.newSession(models.SessionPomodoro)
		ev.Session = s
		e.mode = Break
		e.cycles++
		e.resumePending = true
		ev.Resume = true
	} else {
		ev.Session = e.newSession(models.SessionBreak)
		e.mode = Work
	}
	e.elapsed = 0
	e.mu.Unlock()
	e.signal()

	if err := e.log.AppendSession(ctx, *ev.Session); err != nil {
		return ev, fmt.Errorf("failed to log session: %w", err)
	}
	return ev, nil
}

// newSession builds a log entry for the current elapsed time. Callers hold mu.
func (e *Engine) newSession(t models.SessionType) *models.TimeSession {
	return &models.TimeSession{
		TaskID:   e.taskID,
		Duration: float64(e.elapsed) / 60,
		Date:     e.now().UTC().Format(constants.DateFormat),
		Type:     t,
	}
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Running:       e.running,
		Mode:          e.mode.String(),
		Elapsed:       e.elapsed,
		Target:        Target(e.mode, e.settings()),
		Cycles:        e.cycles,
		TaskID:        e.taskID,
		ResumePending: e.resumePending,
	}
}

func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Run drives the engine in real time until ctx is cancelled. It owns one
// ticker, alive only while the timer runs, and schedules the auto-resume.
// Only one Run may be active per engine.
func (e *Engine) Run(ctx context.Context) error {
	var (
		ticker  *time.Ticker
		tickC   <-chan time.Time
		resumeT *time.Timer
		resumeC <-chan time.Time
	)
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	stopResume := func() {
		if resumeT != nil {
			resumeT.Stop()
			resumeT, resumeC = nil, nil
		}
	}
	defer stopTicker()
	defer stopResume()

	log := logger.Component("timer")
	for {
		st := e.Status()
		switch {
		case st.Running && ticker == nil:
			ticker = time.NewTicker(e.tickInterval)
			tickC = ticker.C
		case !st.Running:
			stopTicker()
		}
		switch {
		case st.ResumePending && resumeT == nil:
			resumeT = time.NewTimer(e.resumeDelay)
			resumeC = resumeT.C
		case !st.ResumePending:
			stopResume()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.wake:
		case <-tickC:
			ev, err := e.Tick(ctx)
			if err != nil && log != nil {
				log.Error("Failed to record session", "error", err)
			}
			if (ev.Session != nil || ev.Resume) && e.onEvent != nil {
				e.onEvent(ev)
			}
		case <-resumeC:
			resumeT, resumeC = nil, nil
			e.Resume()
		}
	}
}
