package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/unidash/internal/models"
)

type fakeTarget struct {
	tasks     []models.Task
	tt        models.Timetable
	citations []models.Citation
	addErr    error
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{tt: models.NewTimetable()}
}

func (f *fakeTarget) AddTask(ctx context.Context, t models.Task) (models.Task, error) {
	if f.addErr != nil {
		return models.Task{}, f.addErr
	}
	t.ID = int64(len(f.tasks) + 1)
	t.ApplyDefaults()
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeTarget) ToggleTask(ctx context.Context, id int64) (models.Task, error) {
	f.tasks[id-1].Completed = !f.tasks[id-1].Completed
	return f.tasks[id-1], nil
}

func (f *fakeTarget) Timetable() models.Timetable { return f.tt }

func (f *fakeTarget) SaveTimetable(ctx context.Context, tt models.Timetable) error {
	f.tt = tt
	return nil
}

func (f *fakeTarget) AddCitation(ctx context.Context, source string, format models.CitationFormat) (models.Citation, error) {
	c := models.Citation{ID: int64(len(f.citations) + 1), Source: source, Format: format, Text: models.FormatCitation(source, format)}
	f.citations = append(f.citations, c)
	return c, nil
}

const sampleYAML = `
tasks:
  - title: Essay draft
    due: 2030-01-10
    priority: high
    category: Study
  - title: Pay rent
    due: 2030-01-05
    completed: true
timetable:
  Mon:
    9AM: Physics
    2PM: Chemistry
  Tue:
    10AM: ""
citations:
  - source: Smith 2020
    format: apa
`

func TestImport(t *testing.T) {
	target := newFakeTarget()
	target.tt.Slots["Tue-10AM"] = "Old class"

	res, err := Import(context.Background(), target, []byte(sampleYAML))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if res.Tasks != 2 || res.Slots != 2 || res.Citations != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	if target.tasks[0].Priority != models.PriorityHigh || target.tasks[0].Category != models.CategoryStudy {
		t.Errorf("task fields not carried: %+v", target.tasks[0])
	}
	if !target.tasks[1].Completed {
		t.Error("completed flag not applied")
	}
	if target.tt.Subject("Mon-2PM") != "Chemistry" {
		t.Error("timetable slot not imported")
	}
	if target.tt.Subject("Tue-10AM") != "" {
		t.Error("empty subject should clear the slot")
	}
	if target.citations[0].Text != "Smith 2020 (APA)" {
		t.Errorf("unexpected citation %+v", target.citations[0])
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"malformed":     "tasks: [",
		"empty":         "tasks: []",
		"missing due":   "tasks:\n  - title: x\n",
		"bad priority":  "tasks:\n  - title: x\n    due: 2030-01-01\n    priority: urgent\n",
		"bad slot":      "timetable:\n  Mon:\n    8AM: Gym\n",
		"bad format":    "citations:\n  - source: x\n    format: chicago\n",
		"missing title": "tasks:\n  - due: 2030-01-01\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(in)); err == nil {
				t.Errorf("expected error for %q", in)
			}
		})
	}
}

func TestImportStopsOnTargetError(t *testing.T) {
	target := newFakeTarget()
	target.addErr = errors.New("store offline")
	res, err := Import(context.Background(), target, []byte(sampleYAML))
	if err == nil || !strings.Contains(err.Error(), "Essay draft") {
		t.Fatalf("expected wrapped add error, got %v", err)
	}
	if res.Tasks != 0 {
		t.Errorf("expected no tasks counted, got %d", res.Tasks)
	}
}
