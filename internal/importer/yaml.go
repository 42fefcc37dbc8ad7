// Package importer loads tasks, timetable classes and citations from a YAML
// file into the dashboard.
package importer

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/timetable"
)

// YAMLTask is a task entry in the input.
type YAMLTask struct {
	Title     string `yaml:"title"`
	Due       string `yaml:"due"`
	Priority  string `yaml:"priority,omitempty"`
	Category  string `yaml:"category,omitempty"`
	Completed bool   `yaml:"completed,omitempty"`
}

// YAMLCitation is a citation entry in the input.
type YAMLCitation struct {
	Source string `yaml:"source"`
	Format string `yaml:"format"`
}

// YAMLInput is the root of the input. The timetable maps a day to
// time-label/subject pairs:
//
//	timetable:
//	  Mon:
//	    9AM: Physics
type YAMLInput struct {
	Tasks     []YAMLTask                   `yaml:"tasks"`
	Timetable map[string]map[string]string `yaml:"timetable"`
	Citations []YAMLCitation               `yaml:"citations"`
}

// Target receives imported entries. *dashboard.Service implements it.
type Target interface {
	AddTask(ctx context.Context, t models.Task) (models.Task, error)
	ToggleTask(ctx context.Context, id int64) (models.Task, error)
	Timetable() models.Timetable
	SaveTimetable(ctx context.Context, tt models.Timetable) error
	AddCitation(ctx context.Context, source string, format models.CitationFormat) (models.Citation, error)
}

// Result counts what was created.
type Result struct {
	Tasks     int
	Slots     int
	Citations int
}

// Parse decodes and checks the input without touching any state.
func Parse(data []byte) (YAMLInput, error) {
	var input YAMLInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return YAMLInput{}, fmt.Errorf("YAML parse error: %w", err)
	}
	if len(input.Tasks) == 0 && len(input.Timetable) == 0 && len(input.Citations) == 0 {
		return YAMLInput{}, fmt.Errorf("nothing to import")
	}
	for i, yt := range input.Tasks {
		t := yt.task()
		if err := t.Validate(); err != nil {
			return YAMLInput{}, fmt.Errorf("task %d (%q): %w", i+1, yt.Title, err)
		}
	}
	for day, slots := range input.Timetable {
		for label := range slots {
			if !timetable.ValidSlot(day, label) {
				return YAMLInput{}, fmt.Errorf("unknown timetable slot %s %s", day, label)
			}
		}
	}
	for i, yc := range input.Citations {
		if yc.Source == "" {
			return YAMLInput{}, fmt.Errorf("citation %d: source is required", i+1)
		}
		if _, err := models.ParseCitationFormat(yc.Format); err != nil {
			return YAMLInput{}, fmt.Errorf("citation %d: %w", i+1, err)
		}
	}
	return input, nil
}

// Import parses data and adds everything to target. Timetable entries are
// merged into the existing grid; an empty subject clears a slot.
func Import(ctx context.Context, target Target, data []byte) (Result, error) {
	input, err := Parse(data)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, yt := range input.Tasks {
		t, err := target.AddTask(ctx, yt.task())
		if err != nil {
			return res, fmt.Errorf("add task %q: %w", yt.Title, err)
		}
		res.Tasks++
		if yt.Completed {
			if _, err := target.ToggleTask(ctx, t.ID); err != nil {
				return res, fmt.Errorf("complete task %q: %w", yt.Title, err)
			}
		}
	}

	if len(input.Timetable) > 0 {
		tt := target.Timetable().Clone()
		for day, slots := range input.Timetable {
			for label, subject := range slots {
				key := timetable.SlotKey(day, label)
				if subject == "" {
					delete(tt.Slots, key)
					continue
				}
				tt.Slots[key] = subject
				res.Slots++
			}
		}
		if err := target.SaveTimetable(ctx, tt); err != nil {
			return res, fmt.Errorf("save timetable: %w", err)
		}
	}

	for _, yc := range input.Citations {
		format, _ := models.ParseCitationFormat(yc.Format)
		if _, err := target.AddCitation(ctx, yc.Source, format); err != nil {
			return res, fmt.Errorf("add citation %q: %w", yc.Source, err)
		}
		res.Citations++
	}
	return res, nil
}

func (yt YAMLTask) task() models.Task {
	return models.Task{
		Title:    yt.Title,
		Due:      yt.Due,
		Priority: models.Priority(yt.Priority),
		Category: models.Category(yt.Category),
	}
}
