package cli

import (
	"path/filepath"

	"github.com/julianstephens/unidash/internal/config"
)

// InitCmd writes a default config file and reports where data lives. The
// stores themselves are created when the command starts.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *InitCmd) Run(ctx *Context) error {
	path := config.ExpandPath(ctx.ConfigPath)
	if c.Force || !fileExists(path) {
		if err := ctx.Config.Save(path); err != nil {
			return err
		}
		ctx.printf("Wrote config: %s\n", path)
	} else {
		ctx.printf("Config exists: %s\n", path)
	}

	ctx.printf("Initialized unidash storage at: %s\n", ctx.Config.LocalPath())
	ctx.printf("Logs: %s\n", filepath.Join(ctx.Config.DataDir, "logs"))
	if ctx.Store.Synced() {
		ctx.println("Synced store: connected")
	} else if dsn, _ := ctx.Config.SyncDSN(); dsn != "" {
		ctx.println("Synced store: configured but unreachable (see logs)")
	} else {
		ctx.println("Synced store: none; run 'unidash config set-sync' to add one")
	}
	return nil
}
