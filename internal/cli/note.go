package cli

import "fmt"

// NoteSaveCmd writes the note attached to a task, replacing any earlier one.
type NoteSaveCmd struct {
	TaskID   string `arg:"" help:"Task ID."`
	Content  string `arg:"" help:"Note text."`
	Progress int    `short:"p" help:"Progress percentage (0-100)." default:"0"`
}

func (c *NoteSaveCmd) Validate() error {
	if c.Progress < 0 || c.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100")
	}
	return nil
}

func (c *NoteSaveCmd) Run(ctx *Context) error {
	id, err := parseID(c.TaskID)
	if err != nil {
		return err
	}
	task, err := ctx.Service.Task(id)
	if err != nil {
		return err
	}
	if _, err := ctx.Service.SaveNote(ctx.Context(), id, c.Content, c.Progress); err != nil {
		return err
	}
	ctx.printf("Saved note for %s (%d%%)\n", task.Title, c.Progress)
	return nil
}

// NoteShowCmd prints one task's note, or every note when no task is given.
type NoteShowCmd struct {
	TaskID string `arg:"" optional:"" help:"Task ID."`
}

func (c *NoteShowCmd) Run(ctx *Context) error {
	if c.TaskID != "" {
		id, err := parseID(c.TaskID)
		if err != nil {
			return err
		}
		note, ok := ctx.Service.NoteFor(id)
		if !ok {
			ctx.println("No note for this task")
			return nil
		}
		ctx.printf("Progress: %d%%\n%s\n", note.Progress, note.Content)
		return nil
	}

	notes := ctx.Service.Notes()
	if len(notes) == 0 {
		ctx.println("No notes found")
		return nil
	}
	doc := ctx.Service.Document()
	for _, n := range notes {
		if !n.Attached() {
			ctx.printf("  [clip %s] %s\n", n.Date, firstLine(n.Content))
			continue
		}
		title := ""
		if t, ok := doc.TaskByID(n.TaskID); ok {
			title = t.Title
		}
		ctx.printf("  %s (%d%%): %s\n", orNA(title), n.Progress, firstLine(n.Content))
	}
	return nil
}
