package alarms

import (
	"context"
	"time"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
)

// Handler reacts to a fired alarm.
type Handler interface {
	Handle(ctx context.Context, a Alarm) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, a Alarm) error

func (f HandlerFunc) Handle(ctx context.Context, a Alarm) error {
	return f(ctx, a)
}

// Dispatcher polls the registry and hands due alarms to the handler.
// Delivery is best effort: a failed handler is logged and not retried.
type Dispatcher struct {
	registry *Registry
	handler  Handler
	interval time.Duration
	now      func() time.Time
}

func NewDispatcher(registry *Registry, handler Handler, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = constants.DefaultAlarmPollInterval
	}
	return &Dispatcher{
		registry: registry,
		handler:  handler,
		interval: interval,
		now:      time.Now,
	}
}

// Poll fires every due alarm once and returns how many were fired.
func (d *Dispatcher) Poll(ctx context.Context) (int, error) {
	due, err := d.registry.TakeDue(ctx, d.now())
	if err != nil {
		return 0, err
	}

	log := logger.Component("alarms")
	for _, a := range due {
		if err := d.handler.Handle(ctx, a); err != nil {
			if log != nil {
				log.Warn("Alarm delivery failed", "alarm", a.Name, "error", err)
			}
			continue
		}
		if log != nil {
			log.Debug("Alarm fired", "alarm", a.Name, "scheduled", a.When)
		}
	}
	return len(due), nil
}

// Run polls immediately and then on every tick until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if _, err := d.Poll(ctx); err != nil {
			logger.Error("Alarm poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
