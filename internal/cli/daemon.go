package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/clipboard"
	"github.com/julianstephens/unidash/internal/logger"
)

// DaemonCmd is the background worker: it delivers alarms and, when a
// system clipboard is available, stages copies for the copy saver.
type DaemonCmd struct {
	NoClipboard bool `help:"Do not watch the clipboard."`
}

func (c *DaemonCmd) Run(ctx *Context) error {
	n, err := ctx.Notifier()
	if err != nil {
		return err
	}
	runCtx := ctx.Context()

	armed := ctx.Service.ScheduleClasses(runCtx, ctx.Service.Timetable())
	logger.Info("Daemon started", "classReminders", armed, "backends", ctx.Store.Backends())

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	d := alarms.NewDispatcher(ctx.Alarms, ctx.alarmHandler(n), ctx.Config.Daemon.PollInterval.Duration)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- d.Run(runCtx)
	}()

	if !c.NoClipboard && ctx.Clipboard != nil {
		w := ctx.clipboardWatcher()
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- w.Run(runCtx)
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	logger.Info("Daemon stopped")
	return nil
}

func (c *Context) clipboardWatcher() *clipboard.Watcher {
	return clipboard.NewWatcher(c.Clipboard, c.Config.Clipboard.PollInterval.Duration, func(ctx context.Context, text string) error {
		staged, err := c.Service.StageCopied(ctx, text)
		if staged {
			logger.Debug("Staged copied text", "preview", clipboard.Preview(text))
		}
		return err
	})
}
