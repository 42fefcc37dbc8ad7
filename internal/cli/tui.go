package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// Snapshot after a successful load, before any edits.
	ctx.PerformAutomaticBackup(ctx.Context())

	engine := ctx.NewEngine()
	p := tea.NewProgram(tui.NewModel(ctx.Context(), ctx.Service, engine), tea.WithAltScreen(), tea.WithContext(ctx.Context()))
	_, err := p.Run()

	// Log a running interval as a manual session.
	if _, serr := engine.Stop(context.WithoutCancel(ctx.Context())); serr != nil {
		logger.Warn("Failed to log running session", "error", serr)
	}
	return err
}
