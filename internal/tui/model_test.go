package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/unidash/internal/clipboard"
	"github.com/julianstephens/unidash/internal/dashboard"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/state"
	"github.com/julianstephens/unidash/internal/storage"
	"github.com/julianstephens/unidash/internal/timer"
	"github.com/julianstephens/unidash/internal/tui/components/tasklist"
)

var testNow = time.Date(2030, 1, 2, 8, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *dashboard.Service) {
	t.Helper()
	ctx := context.Background()
	store := storage.New(storage.NewMemoryStore(), nil)
	if err := store.Init(ctx); err != nil {
		t.Fatal(err)
	}
	st := state.New(store)
	if err := st.Load(ctx); err != nil {
		t.Fatal(err)
	}
	now := func() time.Time { return testNow }
	svc := dashboard.New(dashboard.Deps{State: st, Local: store, Clipboard: &clipboard.Memory{}, Now: now})
	engine := timer.NewEngine(svc, svc.Settings, timer.WithClock(now))
	m := NewModel(ctx, svc, engine)
	m.now = now
	return m, svc
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestTabsCycle(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "tab", "tab")
	if m.state != StateTimer {
		t.Errorf("expected timer tab, got %d", m.state)
	}
	m = press(t, m, "shift+tab", "shift+tab", "shift+tab")
	if m.state != StateTimetable {
		t.Errorf("expected wrap to timetable tab, got %d", m.state)
	}
}

func TestTimerKeysAndTicks(t *testing.T) {
	m, svc := newTestModel(t)
	task, err := svc.AddTask(context.Background(), models.Task{Title: "Essay", Due: "2030-01-10"})
	if err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(tasklist.TrackTaskMsg{Task: task})
	m = next.(Model)
	if m.state != StateTimer || m.engine.Status().TaskID != task.ID {
		t.Fatalf("tracking should select the task and open the timer, state=%d", m.state)
	}

	m = press(t, m, "p")
	if !m.engine.Status().Running {
		t.Fatal("pomodoro key should start the timer")
	}
	for i := 0; i < 30; i++ {
		next, _ = m.Update(tickMsg{gen: m.tickGen})
		m = next.(Model)
	}
	if m.engine.Status().Elapsed != 30 {
		t.Errorf("expected 30s elapsed, got %d", m.engine.Status().Elapsed)
	}

	m = press(t, m, " ")
	if m.engine.Status().Running {
		t.Error("space should stop a running timer")
	}
	if got := svc.Sessions(); len(got) != 1 || got[0].Type != models.SessionManual {
		t.Errorf("expected one manual session, got %+v", got)
	}
	if m.status != "Logged 0.5 min" {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestTaskMessages(t *testing.T) {
	m, svc := newTestModel(t)
	ctx := context.Background()
	task, _ := svc.AddTask(ctx, models.Task{Title: "Lab", Due: "2030-02-01"})

	next, _ := m.Update(tasklist.ToggleTaskMsg{ID: task.ID})
	m = next.(Model)
	if got, _ := svc.Task(task.ID); !got.Completed {
		t.Error("toggle message should complete the task")
	}

	next, _ = m.Update(tasklist.SnoozeTaskMsg{ID: task.ID})
	m = next.(Model)
	if got, _ := svc.Task(task.ID); got.Due != "2030-01-03" {
		t.Errorf("snooze should move due to tomorrow, got %s", got.Due)
	}

	next, _ = m.Update(tasklist.DeleteTaskMsg{ID: task.ID})
	m = next.(Model)
	if m.state != StateConfirmDelete {
		t.Fatal("delete should ask for confirmation")
	}
	m = press(t, m, "n")
	if _, err := svc.Task(task.ID); err != nil {
		t.Error("cancelled delete removed the task")
	}

	next, _ = m.Update(tasklist.DeleteTaskMsg{ID: task.ID})
	m = next.(Model)
	m = press(t, m, "y")
	if _, err := svc.Task(task.ID); err == nil {
		t.Error("confirmed delete kept the task")
	}
	if m.state != StateTasks {
		t.Errorf("expected tasks tab after delete, got %d", m.state)
	}
}

func TestAddTaskOpensForm(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(tasklist.AddTaskMsg{})
	m = next.(Model)
	if m.state != StateForm || m.taskForm == nil {
		t.Fatal("add should open the task form")
	}
	if m.taskForm.Due != "2030-01-09" {
		t.Errorf("form should default due to a week out, got %s", m.taskForm.Due)
	}
	m = press(t, m, "esc")
	if m.state != StateDashboard {
		t.Errorf("esc should return to the previous tab, got %d", m.state)
	}
}

func TestCopySaverPrompt(t *testing.T) {
	m, svc := newTestModel(t)
	ctx := context.Background()
	if ok, err := svc.StageCopied(ctx, "The mitochondria is the powerhouse"); !ok || err != nil {
		t.Fatal("failed to stage text")
	}
	next, _ := m.Update(pollMsg{})
	m = next.(Model)
	if m.staged == "" {
		t.Fatal("dashboard should pick up staged text")
	}

	m = press(t, m, "n")
	if m.staged != "" {
		t.Error("staged text should be cleared after saving")
	}
	notes := svc.Notes()
	if len(notes) != 1 || notes[0].Attached() {
		t.Errorf("expected one clip note, got %+v", notes)
	}
}

func TestTimetableCursor(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateTimetable
	m = press(t, m, "right", "down", "down")
	if m.slotDay != 1 || m.slotTime != 2 {
		t.Errorf("cursor at day %d time %d", m.slotDay, m.slotTime)
	}
	m = press(t, m, "enter")
	if m.state != StateForm || m.slotForm == nil || m.slotForm.Day != "Tue" || m.slotForm.Time != "11AM" {
		t.Fatalf("enter should open the slot form for Tue 11AM, got %+v", m.slotForm)
	}
}

func TestViewsRender(t *testing.T) {
	m, svc := newTestModel(t)
	ctx := context.Background()
	task, _ := svc.AddTask(ctx, models.Task{Title: "Essay", Due: "2030-01-10"})
	_, _ = svc.SaveNote(ctx, task.ID, "outline", 40)
	_, _ = svc.AddCitation(ctx, "Smith", models.FormatAPA)
	_ = svc.SetSlot(ctx, "Mon", "9AM", "Physics")

	for s := StateDashboard; s < tabCount; s++ {
		m.state = s
		if m.View() == "" {
			t.Errorf("tab %d rendered nothing", s)
		}
	}
}

func TestTimerTickFollowsEngine(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateTimer

	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init should start the clipboard poll")
	}
	next, cmd := m.Update(tickMsg{gen: m.tickGen})
	m = next.(Model)
	if cmd != nil || m.engine.Status().Elapsed != 0 {
		t.Fatal("an idle timer should not tick")
	}

	m = press(t, m, "p")
	first := m.tickGen
	next, cmd = m.Update(tickMsg{gen: first})
	m = next.(Model)
	if cmd == nil || m.engine.Status().Elapsed != 1 {
		t.Fatalf("running timer should tick and re-arm, elapsed=%d", m.engine.Status().Elapsed)
	}

	m = press(t, m, " ")
	next, cmd = m.Update(tickMsg{gen: first})
	m = next.(Model)
	if cmd != nil {
		t.Error("stop should cancel the pending tick")
	}

	m = press(t, m, "p")
	if m.tickGen == first {
		t.Fatal("restart should begin a new tick")
	}
	next, _ = m.Update(tickMsg{gen: first})
	m = next.(Model)
	if m.engine.Status().Elapsed != 0 {
		t.Errorf("stale tick advanced the timer to %d", m.engine.Status().Elapsed)
	}

	target := m.engine.Status().Target
	for i := 0; i < target; i++ {
		next, _ = m.Update(tickMsg{gen: m.tickGen})
		m = next.(Model)
	}
	st := m.engine.Status()
	if st.Running || !st.ResumePending {
		t.Fatalf("work interval should end with a pending break, got %+v", st)
	}
	next, cmd = m.Update(tickMsg{gen: m.tickGen})
	m = next.(Model)
	if cmd != nil {
		t.Error("tick should not re-arm after the interval ends")
	}

	gen := m.tickGen
	next, cmd = m.Update(resumeMsg{})
	m = next.(Model)
	if cmd == nil || m.tickGen == gen || !m.engine.Status().Running {
		t.Error("resume should start the break and its tick")
	}
}
