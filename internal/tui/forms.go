package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
)

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// NewTaskForm mirrors the popup's add-task row.
func NewTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(notEmpty("title")),
			huh.NewInput().
				Title("Due (YYYY-MM-DD)").
				Value(&fm.Due).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateFormat, s); err != nil {
						return fmt.Errorf("invalid date format, use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewSelect[models.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("High", models.PriorityHigh),
					huh.NewOption("Medium", models.PriorityMedium),
					huh.NewOption("Low", models.PriorityLow),
				).
				Value(&fm.Priority),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(
					huh.NewOption("Work", models.CategoryWork),
					huh.NewOption("Study", models.CategoryStudy),
					huh.NewOption("Personal", models.CategoryPersonal),
				).
				Value(&fm.Category),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewNoteForm(fm *NoteFormModel, taskTitle string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Notes for "+taskTitle).
				Value(&fm.Content),
			huh.NewInput().
				Title("Progress (0-100)").
				Value(&fm.Progress).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if n < 0 || n > 100 {
						return fmt.Errorf("progress must be between 0 and 100")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewCitationForm(fm *CitationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Source").
				Value(&fm.Source).
				Validate(notEmpty("source")),
			huh.NewSelect[models.CitationFormat]().
				Title("Format").
				Options(
					huh.NewOption("APA", models.FormatAPA),
					huh.NewOption("MLA", models.FormatMLA),
				).
				Value(&fm.Format),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewSlotForm edits one timetable cell. An empty subject clears it.
func NewSlotForm(fm *SlotFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Class on %s at %s", fm.Day, fm.Time)).
				Description("Leave empty to clear the slot").
				Value(&fm.Subject),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewReminderForm(fm *ReminderFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder").
				Value(&fm.Text).
				Validate(notEmpty("reminder")),
		),
	).WithTheme(huh.ThemeDracula())
}
