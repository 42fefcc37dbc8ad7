// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/dashboard"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/timer"
	"github.com/julianstephens/unidash/internal/tui/components/tasklist"
)

type SessionState int

// Tabs come first so they can be cycled with modulo arithmetic.
const (
	StateDashboard SessionState = iota
	StateTasks
	StateTimer
	StateNotes
	StateCitations
	StateTimetable
	StateForm
	StateConfirmDelete
)

const tabCount = 6

var tabTitles = []string{"Dashboard", "Tasks", "Timer", "Notes", "Citations", "Timetable"}

type TaskFormModel struct {
	Title    string
	Due      string
	Priority models.Priority
	Category models.Category
}

type NoteFormModel struct {
	TaskID   int64
	Content  string
	Progress string
}

type CitationFormModel struct {
	Source string
	Format models.CitationFormat
}

type SlotFormModel struct {
	Day     string
	Time    string
	Subject string
}

type ReminderFormModel struct {
	Text string
}

type Model struct {
	ctx    context.Context
	svc    *dashboard.Service
	engine *timer.Engine
	now    func() time.Time

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	taskList      tasklist.Model
	bar           progress.Model

	form         *huh.Form
	onSubmit     func(m *Model) error
	taskForm     *TaskFormModel
	noteForm     *NoteFormModel
	citationForm *CitationFormModel
	slotForm     *SlotFormModel
	reminderForm *ReminderFormModel

	taskToDeleteID int64
	citationCursor int
	slotDay        int
	slotTime       int
	staged         string
	status         string
	tickGen        int
	quitting       bool
	width          int
	height         int
}

func NewModel(ctx context.Context, svc *dashboard.Service, engine *timer.Engine) Model {
	m := Model{
		ctx:      ctx,
		svc:      svc,
		engine:   engine,
		now:      time.Now,
		state:    StateDashboard,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		taskList: tasklist.New(svc.Tasks(""), 0, 0),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.refreshStaged()
	return m
}

// tickMsg advances the timer by one second. Ticks from an older generation
// were cancelled by Stop or a restart and are dropped.
type tickMsg struct {
	gen int
}

type resumeMsg struct{}

// pollMsg re-reads staged clipboard text.
type pollMsg struct{}

// stateChangedMsg is sent after any save so views re-read the document.
type stateChangedMsg struct{}

func tick(gen int) tea.Cmd {
	return tea.Tick(constants.TickInterval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func poll() tea.Cmd {
	return tea.Tick(constants.DefaultClipboardPollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

// startTicking begins a fresh one-second tick aligned to now.
func (m *Model) startTicking() tea.Cmd {
	m.tickGen++
	return tick(m.tickGen)
}

// stopTicking cancels the tick in flight.
func (m *Model) stopTicking() {
	m.tickGen++
}

func (m Model) Init() tea.Cmd {
	return poll()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateTimer:
		keys = append(keys, m.keys.StartStop, m.keys.Pomodoro)
	case StateCitations:
		keys = append(keys, m.keys.Add, m.keys.Copy)
	case StateTimetable:
		keys = append(keys, m.keys.Enter, m.keys.Reminder)
	case StateDashboard:
		if m.staged != "" {
			keys = append(keys, m.keys.SaveClip, m.keys.Cite, m.keys.Dismiss)
		}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Enter}
	actions := []key.Binding{m.keys.StartStop, m.keys.Pomodoro, m.keys.Add, m.keys.Copy, m.keys.Reminder}
	return [][]key.Binding{global, navigation, actions}
}

// refreshStaged reloads the copy saver's pending text.
func (m *Model) refreshStaged() {
	text, err := m.svc.PeekStaged(m.ctx)
	if err != nil {
		m.staged = ""
		return
	}
	m.staged = text
}

func (m *Model) reload() {
	m.taskList.SetTasks(m.svc.Tasks(""))
	if n := len(m.svc.Citations()); m.citationCursor >= n {
		m.citationCursor = max(0, n-1)
	}
}

func (m *Model) setError(err error) {
	if err != nil {
		m.status = "Error: " + err.Error()
	}
}
