package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/unidash/internal/dashboard"
	"github.com/julianstephens/unidash/internal/models"
)

type TaskAddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Due      string `short:"d" help:"Due date (YYYY-MM-DD)." required:""`
	Priority string `short:"p" help:"Priority (high|medium|low)." default:"medium" enum:"high,medium,low"`
	Category string `short:"c" help:"Category (Work|Study|Personal)." default:"Work" enum:"Work,Study,Personal"`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	task, err := ctx.Service.AddTask(ctx.Context(), models.Task{
		Title:    c.Title,
		Due:      c.Due,
		Priority: models.Priority(c.Priority),
		Category: models.Category(c.Category),
	})
	if err != nil {
		return err
	}
	ctx.printf("Added task: %s (ID: %d, due %s)\n", task.Title, task.ID, task.Due)
	return nil
}

// TaskQuickCmd adds a task due in a week with default priority and category.
type TaskQuickCmd struct {
	Title string `arg:"" help:"Task title."`
}

func (c *TaskQuickCmd) Run(ctx *Context) error {
	task, err := ctx.Service.QuickAdd(ctx.Context(), c.Title)
	if err != nil {
		return err
	}
	ctx.printf("Added task: %s (ID: %d, due %s)\n", task.Title, task.ID, task.Due)
	return nil
}

type TaskListCmd struct {
	Query   string `short:"q" help:"Only show tasks whose title contains this text."`
	Pending bool   `help:"Hide completed tasks."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	tasks := ctx.Service.Tasks(c.Query)
	if len(tasks) == 0 {
		ctx.println("No tasks found")
		return nil
	}

	ctx.println("Tasks:")
	for _, t := range tasks {
		if c.Pending && t.Completed {
			continue
		}
		ctx.printf("  %s %d  %s (due %s, %s, %s)\n",
			checkmark(t.Completed), t.ID, t.Title, t.Due, t.Priority, t.Category)
		if note, ok := ctx.Service.NoteFor(t.ID); ok {
			ctx.printf("      %d%% - %s\n", note.Progress, firstLine(note.Content))
		}
	}
	return nil
}

// TaskDoneCmd flips a task's completed flag.
type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	task, err := ctx.Service.ToggleTask(ctx.Context(), id)
	if err != nil {
		return err
	}
	if task.Completed {
		ctx.printf("Completed: %s\n", task.Title)
	} else {
		ctx.printf("Reopened: %s\n", task.Title)
	}
	return nil
}

type TaskEditCmd struct {
	ID       string  `arg:"" help:"Task ID."`
	Title    *string `help:"New title."`
	Due      *string `help:"New due date (YYYY-MM-DD)."`
	Priority *string `help:"New priority (high|medium|low)."`
	Category *string `help:"New category (Work|Study|Personal)."`
}

func (c *TaskEditCmd) Validate() error {
	if c.Priority != nil && !models.ValidPriority(*c.Priority) {
		return fmt.Errorf("invalid priority: %s (must be high, medium, or low)", *c.Priority)
	}
	if c.Category != nil && !models.ValidCategory(*c.Category) {
		return fmt.Errorf("invalid category: %s (must be Work, Study, or Personal)", *c.Category)
	}
	return nil
}

func (c *TaskEditCmd) Run(ctx *Context) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}

	patch := dashboard.TaskPatch{Title: c.Title, Due: c.Due}
	if c.Priority != nil {
		p := models.Priority(*c.Priority)
		patch.Priority = &p
	}
	if c.Category != nil {
		cat := models.Category(*c.Category)
		patch.Category = &cat
	}
	if patch == (dashboard.TaskPatch{}) {
		ctx.println("No changes specified.")
		return nil
	}

	task, err := ctx.Service.UpdateTask(ctx.Context(), id, patch)
	if err != nil {
		return err
	}
	ctx.printf("Updated task: %s (due %s, %s, %s)\n", task.Title, task.Due, task.Priority, task.Category)
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	task, err := ctx.Service.Task(id)
	if err != nil {
		return err
	}
	if err := ctx.Service.DeleteTask(ctx.Context(), id); err != nil {
		return err
	}
	ctx.printf("Deleted task: %s\n", task.Title)
	return nil
}

// TaskSnoozeCmd pushes a task's due date to tomorrow.
type TaskSnoozeCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskSnoozeCmd) Run(ctx *Context) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	task, err := ctx.Service.SnoozeTask(ctx.Context(), id)
	if err != nil {
		return err
	}
	ctx.printf("Snoozed %s until %s\n", task.Title, task.Due)
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
