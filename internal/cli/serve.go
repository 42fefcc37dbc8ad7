package cli

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/unidash/internal/httpapi"
	"github.com/julianstephens/unidash/internal/logger"
)

// ServeCmd runs the loopback HTTP bridge. The timer engine lives in this
// process so extension surfaces can start and stop it.
type ServeCmd struct {
	Addr    string   `help:"Listen address (defaults to server.addr)."`
	Origins []string `help:"Allowed CORS origins (defaults to server.allowed_origins)."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.Server.Addr
	}
	origins := c.Origins
	if len(origins) == 0 {
		origins = ctx.Config.Server.AllowedOrigins
	}

	runCtx := ctx.Context()
	engine := ctx.NewEngine()
	go func() {
		if err := engine.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Timer stopped", "error", err)
		}
	}()

	srv := httpapi.New(ctx.Service, engine, httpapi.Options{AllowedOrigins: origins, Now: ctx.Now})
	ctx.printf("Serving on http://%s\n", addr)
	err := srv.ListenAndServe(runCtx, addr)

	// Log the running interval, if any, before exiting.
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(runCtx), 5*time.Second)
	defer cancel()
	if _, serr := engine.Stop(stopCtx); serr != nil {
		logger.Warn("Failed to log running session", "error", serr)
	}
	return err
}
