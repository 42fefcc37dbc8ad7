package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/unidash/internal/timer"
)

// TimerCmd runs the session timer in the foreground until interrupted or
// until the requested number of work intervals have finished. Time counted
// when interrupted is logged as a manual session.
type TimerCmd struct {
	Pomodoro bool   `short:"p" help:"Start a work interval (pomodoro) instead of resuming the current mode."`
	Task     string `short:"t" help:"Task ID to log sessions against."`
	Cycles   int    `help:"Stop after this many completed work intervals (0 runs until interrupted)." default:"0"`
}

func (c *TimerCmd) Run(ctx *Context) error {
	var taskTitle string
	var taskID int64
	if c.Task != "" {
		id, err := parseID(c.Task)
		if err != nil {
			return err
		}
		task, err := ctx.Service.Task(id)
		if err != nil {
			return err
		}
		taskID, taskTitle = id, task.Title
	}

	runCtx, cancel := context.WithCancel(ctx.Context())
	defer cancel()

	events := make(chan timer.Event, 4)
	engine := ctx.NewEngine(timer.WithEventHook(func(ev timer.Event) {
		select {
		case events <- ev:
		default:
		}
	}))
	engine.SelectTask(taskID)
	if c.Pomodoro {
		engine.Pomodoro()
	} else {
		engine.Start()
	}

	done := make(chan error, 1)
	go func() { done <- engine.Run(runCtx) }()

	if taskTitle != "" {
		ctx.printf("Tracking: %s\n", taskTitle)
	}
	ctx.println("Press Ctrl+C to stop.")

	status := time.NewTicker(time.Second)
	defer status.Stop()

	completed := 0
	for {
		select {
		case <-runCtx.Done():
			return c.stop(ctx, engine, done)
		case ev := <-events:
			if ev.Session != nil {
				ctx.printf("\r\033[K✓ %s session logged: %.1f min\n", ev.Session.Type, ev.Session.Duration)
			}
			if ev.Resume {
				completed++
				if c.Cycles > 0 && completed >= c.Cycles {
					cancel()
					<-done
					engine.Stop(context.WithoutCancel(ctx.Context()))
					ctx.printf("Finished %d work interval(s).\n", completed)
					return nil
				}
			}
		case <-status.C:
			st := engine.Status()
			ctx.printf("\r\033[K%s %s / %s  (cycles %d)", st.Mode, formatClock(st.Elapsed), formatClock(st.Target), st.Cycles)
		}
	}
}

func (c *TimerCmd) stop(ctx *Context, engine *timer.Engine, done <-chan error) error {
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	ev, err := engine.Stop(context.WithoutCancel(ctx.Context()))
	ctx.println()
	if err != nil {
		return err
	}
	if ev.Session != nil {
		ctx.printf("✓ manual session logged: %.1f min\n", ev.Session.Duration)
	}
	return nil
}

// formatClock renders seconds as MM:SS.
func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
