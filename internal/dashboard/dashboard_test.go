package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/clipboard"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/state"
	"github.com/julianstephens/unidash/internal/storage"
)

type fakeScheduler struct {
	mu      sync.Mutex
	created map[string]time.Time
	cleared []string
}

func (f *fakeScheduler) Create(ctx context.Context, name string, when time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created[name] = when
	return nil
}

func (f *fakeScheduler) Clear(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.created, name)
	f.cleared = append(f.cleared, name)
	return nil
}

// Wednesday 2030-01-02 08:00 UTC
var testNow = time.Date(2030, 1, 2, 8, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	sched *fakeScheduler
	clip  *clipboard.Memory
	store *storage.Store
}

func newFixture(t *testing.T) fixture {
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
	sched := &fakeScheduler{created: map[string]time.Time{}}
	clip := &clipboard.Memory{}
	svc := New(Deps{
		State:     st,
		Alarms:    sched,
		Local:     store,
		Clipboard: clip,
		Now:       func() time.Time { return testNow },
	})
	return fixture{svc: svc, sched: sched, clip: clip, store: store}
}

func TestAddTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.AddTask(ctx, models.Task{Title: "  Essay draft ", Due: "2030-01-10"})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.ID != testNow.UnixMilli() || task.Title != "Essay draft" {
		t.Errorf("unexpected task %+v", task)
	}
	if task.Priority != models.PriorityMedium || task.Category != models.CategoryWork {
		t.Errorf("defaults not applied: %+v", task)
	}

	when, ok := f.sched.created[alarms.DeadlineName(task.ID)]
	if !ok {
		t.Fatal("deadline alarm not registered")
	}
	if want := time.Date(2030, 1, 9, 0, 0, 0, 0, time.UTC); !when.Equal(want) {
		t.Errorf("alarm at %v, want %v", when, want)
	}

	reloaded, _ := f.store.Load(ctx)
	if len(reloaded.Tasks) != 1 {
		t.Error("task not persisted")
	}
}

func TestAddTaskIDsStayUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.svc.AddTask(ctx, models.Task{Title: "A", Due: "2030-01-10"})
	b, _ := f.svc.AddTask(ctx, models.Task{Title: "B", Due: "2030-01-10"})
	if a.ID == b.ID || b.ID != a.ID+1 {
		t.Errorf("ids %d and %d", a.ID, b.ID)
	}
}

func TestAddTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bad := []models.Task{
		{Title: "", Due: "2030-01-10"},
		{Title: "No due"},
		{Title: "Bad due", Due: "10/01/2030"},
		{Title: "Bad priority", Due: "2030-01-10", Priority: "urgent"},
	}
	for _, task := range bad {
		if _, err := f.svc.AddTask(ctx, task); !errors.Is(err, ErrInvalidTask) {
			t.Errorf("AddTask(%+v) error = %v, want ErrInvalidTask", task, err)
		}
	}
	if len(f.svc.Tasks("")) != 0 {
		t.Error("invalid tasks were stored")
	}
}

func TestQuickAdd(t *testing.T) {
	f := newFixture(t)
	task, err := f.svc.QuickAdd(context.Background(), "Call advisor")
	if err != nil {
		t.Fatal(err)
	}
	if task.Due != "2030-01-09" || task.Priority != models.PriorityMedium || task.Category != models.CategoryWork {
		t.Errorf("unexpected quick task %+v", task)
	}
}

func TestToggleUpdateSnoozeDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, _ := f.svc.AddTask(ctx, models.Task{Title: "Lab", Due: "2030-02-01", Category: models.CategoryStudy})

	toggled, err := f.svc.ToggleTask(ctx, task.ID)
	if err != nil || !toggled.Completed {
		t.Fatalf("ToggleTask = %+v, %v", toggled, err)
	}

	title := "Lab report"
	updated, err := f.svc.UpdateTask(ctx, task.ID, TaskPatch{Title: &title})
	if err != nil || updated.Title != "Lab report" || !updated.Completed {
		t.Fatalf("UpdateTask = %+v, %v", updated, err)
	}

	empty := ""
	if _, err := f.svc.UpdateTask(ctx, task.ID, TaskPatch{Title: &empty}); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("expected ErrInvalidTask, got %v", err)
	}

	snoozed, err := f.svc.SnoozeTask(ctx, task.ID)
	if err != nil || snoozed.Due != "2030-01-03" {
		t.Fatalf("SnoozeTask = %+v, %v", snoozed, err)
	}
	if when := f.sched.created[alarms.DeadlineName(task.ID)]; !when.Equal(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("alarm not re-registered after snooze: %v", when)
	}

	if err := f.svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.sched.created[alarms.DeadlineName(task.ID)]; ok {
		t.Error("alarm not cleared on delete")
	}
	if _, err := f.svc.Task(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if err := f.svc.DeleteTask(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second delete: %v", err)
	}
	if _, err := f.svc.ToggleTask(ctx, 1); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("toggle missing: %v", err)
	}
}

func TestTasksFilteredAndSorted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.svc.AddTask(ctx, models.Task{Title: "Later", Due: "2030-03-01", Category: models.CategoryStudy})
	_, _ = f.svc.AddTask(ctx, models.Task{Title: "Sooner", Due: "2030-02-01", Category: models.CategoryStudy})
	_, _ = f.svc.AddTask(ctx, models.Task{Title: "Rent", Due: "2030-01-05", Category: models.CategoryPersonal})

	got := f.svc.Tasks("study")
	if len(got) != 2 || got[0].Title != "Sooner" {
		t.Errorf("unexpected tasks %+v", got)
	}
}

func TestSaveNoteUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SaveNote(ctx, 5, "first", 10); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SaveNote(ctx, 5, "second", 60); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SaveNote(ctx, 6, "other", 0); err != nil {
		t.Fatal(err)
	}

	if len(f.svc.Notes()) != 2 {
		t.Errorf("expected 2 notes, got %d", len(f.svc.Notes()))
	}
	n, ok := f.svc.NoteFor(5)
	if !ok || n.Content != "second" || n.Progress != 60 {
		t.Errorf("NoteFor(5) = %+v, %v", n, ok)
	}

	for _, p := range []int{-1, 101} {
		if _, err := f.svc.SaveNote(ctx, 5, "x", p); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("progress %d: expected ErrInvalidInput, got %v", p, err)
		}
	}
	if _, err := f.svc.SaveNote(ctx, 0, "x", 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected error for note without task, got %v", err)
	}
}

func TestCitations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.AddCitation(ctx, "Smith 2020", models.FormatMLA)
	if err != nil {
		t.Fatal(err)
	}
	if c.Text != "Smith 2020 (MLA)" {
		t.Errorf("Text = %q", c.Text)
	}
	if got, _ := f.clip.ReadAll(); got != "Smith 2020 (MLA)" {
		t.Errorf("clipboard = %q", got)
	}

	if _, err := f.svc.AddCitation(ctx, " ", models.FormatAPA); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected error for empty source, got %v", err)
	}

	_ = f.clip.WriteAll("something else")
	if _, err := f.svc.CopyCitation(c.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.clip.ReadAll(); got != c.Text {
		t.Errorf("clipboard after copy = %q", got)
	}

	f.clip.Err = errors.New("no clipboard")
	if _, err := f.svc.AddCitation(ctx, "Jones", models.FormatAPA); err != nil {
		t.Errorf("clipboard failure should not fail AddCitation: %v", err)
	}
	if len(f.svc.Citations()) != 2 {
		t.Errorf("expected 2 citations, got %d", len(f.svc.Citations()))
	}
}

func TestSaveTimetableSchedulesWeekdays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tt := models.NewTimetable()
	tt.Slots["Mon-9AM"] = "Physics"
	tt.Slots["Fri-2PM"] = "History"
	tt.Slots["Sat-10AM"] = "Yoga"
	tt.Slots["Tue-11AM"] = ""
	if err := f.svc.SaveTimetable(ctx, tt); err != nil {
		t.Fatal(err)
	}

	if len(f.sched.created) != 2 {
		t.Fatalf("expected 2 class alarms, got %v", f.sched.created)
	}
	if when := f.sched.created["timetable-Fri-2PM"]; !when.Equal(time.Date(2030, 1, 4, 13, 55, 0, 0, time.UTC)) {
		t.Errorf("Fri-2PM alarm at %v", when)
	}
	if _, ok := f.sched.created["timetable-Sat-10AM"]; ok {
		t.Error("weekend slots must not get alarms")
	}

	if err := f.svc.SetSlot(ctx, "Mon", "9AM", ""); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.sched.created["timetable-Mon-9AM"]; ok {
		t.Error("emptied slot kept its alarm")
	}
	if f.svc.Timetable().Subject("Mon-9AM") != "" {
		t.Error("slot not cleared")
	}

	if err := f.svc.SetSlot(ctx, "Mon", "8AM", "Nope"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for off-grid slot, got %v", err)
	}
}

func TestLegacyReminderPolicy(t *testing.T) {
	f := newFixture(t)
	f.svc.policy = constants.ReminderPolicyLegacy
	if err := f.svc.SetSlot(context.Background(), "Fri", "2PM", "History"); err != nil {
		t.Fatal(err)
	}
	if when := f.sched.created["timetable-Fri-2PM"]; !when.Equal(time.Date(2030, 1, 4, 13, 0, 0, 0, time.UTC)) {
		t.Errorf("legacy alarm at %v", when)
	}
}

func TestAddReminder(t *testing.T) {
	f := newFixture(t)
	r, err := f.svc.AddReminder(context.Background(), "Bring calculator")
	if err != nil {
		t.Fatal(err)
	}
	if r.Time != "08:00:00" || r.ID == 0 {
		t.Errorf("unexpected reminder %+v", r)
	}
	if _, err := f.svc.AddReminder(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCopySaver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if ok, _ := f.svc.StageCopied(ctx, "tiny"); ok {
		t.Error("short copy should not be staged")
	}
	if _, err := f.svc.TakeStaged(ctx); !errors.Is(err, ErrNothingStaged) {
		t.Errorf("expected ErrNothingStaged, got %v", err)
	}

	text := "Photosynthesis converts light energy"
	if ok, err := f.svc.StageCopied(ctx, text); !ok || err != nil {
		t.Fatalf("StageCopied = %v, %v", ok, err)
	}
	if peeked, _ := f.svc.PeekStaged(ctx); peeked != text {
		t.Errorf("PeekStaged = %q", peeked)
	}
	got, err := f.svc.TakeStaged(ctx)
	if err != nil || got != text {
		t.Fatalf("TakeStaged = %q, %v", got, err)
	}
	if _, err := f.svc.TakeStaged(ctx); !errors.Is(err, ErrNothingStaged) {
		t.Error("staged text should be cleared after take")
	}

	n1, _ := f.svc.SaveClipAsNote(ctx, got)
	n2, _ := f.svc.SaveClipAsNote(ctx, got)
	if n1.TaskID != 0 || n1.Date != "2030-01-02" || n1.ID == n2.ID {
		t.Errorf("unexpected clip notes %+v %+v", n1, n2)
	}
	if len(f.svc.Notes()) != 2 {
		t.Error("clip notes should always append")
	}

	if url := SearchURL("a b&c"); !strings.HasSuffix(url, "a+b%26c") {
		t.Errorf("SearchURL = %q", url)
	}
}

func TestSessionsAndSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AppendSession(ctx, models.TimeSession{TaskID: 1, Duration: 25, Date: "2030-01-02", Type: models.SessionPomodoro}); err != nil {
		t.Fatal(err)
	}
	if len(f.svc.Sessions()) != 1 {
		t.Error("session not appended")
	}

	s, err := f.svc.UpdateSettings(ctx, map[string]string{constants.SettingPomodoroLength: "50"})
	if err != nil {
		t.Fatal(err)
	}
	if s.PomodoroLength != 50 || s.BreakLength != constants.DefaultBreakLength {
		t.Errorf("unexpected settings %+v", s)
	}
	if _, err := f.svc.UpdateSettings(ctx, map[string]string{constants.SettingBreakLength: "0"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected error for zero break, got %v", err)
	}
	if _, err := f.svc.UpdateSettings(ctx, map[string]string{"volume": "3"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected error for unknown setting, got %v", err)
	}
}

func TestPatchDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old, _ := f.svc.AddTask(ctx, models.Task{Title: "Old", Due: "2030-01-20"})

	patch := models.NewDocument()
	patch.Tasks = []models.Task{{ID: 99, Title: "From extension", Due: "2030-01-15", Priority: models.PriorityLow, Category: models.CategoryStudy}}
	patch.Timetable.Slots["Wed-3PM"] = "Chemistry"
	patch.Citations = []models.Citation{{ID: 1, Source: "ignored"}}

	if err := f.svc.PatchDocument(ctx, patch, []string{constants.KeyTasks, constants.KeyTimetable}); err != nil {
		t.Fatal(err)
	}

	doc := f.svc.Document()
	if len(doc.Tasks) != 1 || doc.Tasks[0].ID != 99 {
		t.Errorf("tasks not replaced: %+v", doc.Tasks)
	}
	if len(doc.Citations) != 0 {
		t.Error("unnamed key was written")
	}
	if _, ok := f.sched.created[alarms.DeadlineName(99)]; !ok {
		t.Error("deadline alarm missing for patched task")
	}
	if _, ok := f.sched.created[alarms.DeadlineName(old.ID)]; ok {
		t.Error("alarm for removed task not cleared")
	}
	if _, ok := f.sched.created["timetable-Wed-3PM"]; !ok {
		t.Error("class alarm missing for patched timetable")
	}
}
