package cli

import (
	"context"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/notifier"
	"github.com/julianstephens/unidash/internal/reminders"
)

// NotifyCmd fires every due alarm once, or sends a single message. It is
// meant for cron or launchd when the daemon is not running.
type NotifyCmd struct {
	DryRun  bool   `help:"Print notifications to stdout instead of sending them."`
	Message string `short:"m" help:"Send this text as a notification and exit."`
}

func (c *NotifyCmd) Run(ctx *Context) error {
	n, err := ctx.Notifier()
	if err != nil {
		return err
	}
	if c.DryRun {
		n = notifier.NewConsole(ctx.Out)
	}

	if c.Message != "" {
		return n.Notify(ctx.Context(), notifier.Notification{Title: "UniDash", Body: c.Message})
	}

	d := alarms.NewDispatcher(ctx.Alarms, ctx.alarmHandler(n), ctx.Config.Daemon.PollInterval.Duration)
	fired, err := d.Poll(ctx.Context())
	if err != nil {
		return err
	}
	if c.DryRun && fired == 0 {
		ctx.println("No alarms due.")
	}
	return nil
}

// alarmHandler delivers an alarm's notification and re-arms class reminders
// for the following week.
func (c *Context) alarmHandler(n notifier.Notifier) alarms.Handler {
	delivery := reminders.NewHandler(c.Store, n)
	return alarms.HandlerFunc(func(ctx context.Context, a alarms.Alarm) error {
		err := delivery.Handle(ctx, a)
		if kind, _ := alarms.ParseName(a.Name); kind == alarms.KindTimetable {
			if _, rerr := c.State.Refresh(ctx); rerr != nil {
				logger.Warn("Failed to refresh document", "error", rerr)
			} else {
				c.Service.ScheduleClasses(ctx, c.Service.Timetable())
			}
		}
		return err
	})
}
