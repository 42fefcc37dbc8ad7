package cli

type ReminderAddCmd struct {
	Text string `arg:"" help:"Reminder text."`
}

func (c *ReminderAddCmd) Run(ctx *Context) error {
	r, err := ctx.Service.AddReminder(ctx.Context(), c.Text)
	if err != nil {
		return err
	}
	ctx.printf("Added reminder at %s: %s\n", r.Time, r.Text)
	return nil
}

type ReminderListCmd struct{}

func (c *ReminderListCmd) Run(ctx *Context) error {
	list := ctx.Service.Reminders()
	if len(list) == 0 {
		ctx.println("No reminders")
		return nil
	}
	for _, r := range list {
		ctx.printf("  %s  %s\n", r.Time, r.Text)
	}
	return nil
}
