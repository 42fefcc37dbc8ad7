package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/unidash/internal/keyring"
	"github.com/julianstephens/unidash/internal/storage/postgres"
)

// ConfigSetSyncCmd stores the synced-store connection string in the OS
// keyring. Unlike the config file, the keyring may hold a password.
type ConfigSetSyncCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string."`
}

func (c *ConfigSetSyncCmd) Run(ctx *Context) error {
	if err := postgres.ValidateConnString(c.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.println("⚠ Connection string contains a password; it will be kept in the encrypted OS keyring.")
	}
	if err := keyring.SyncDSN.Set(c.ConnectionString); err != nil {
		return err
	}
	ctx.printf("✓ Sync connection stored in OS keyring: %s\n", maskDSN(c.ConnectionString))
	if ctx.Config.Sync.DSN != "" {
		ctx.println("  Note: sync.dsn in the config file or UNIDASH_SYNC_DSN takes precedence.")
	}
	return nil
}

type ConfigClearSyncCmd struct{}

func (c *ConfigClearSyncCmd) Run(ctx *Context) error {
	if err := keyring.SyncDSN.Delete(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no sync connection stored in keyring")
		}
		return err
	}
	ctx.println("✓ Sync connection removed from OS keyring")
	return nil
}

// ConfigShowCmd prints the effective configuration with secrets masked.
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	ctx.printf("Config file:       %s\n", ctx.ConfigPath)
	ctx.printf("Data directory:    %s\n", cfg.DataDir)
	ctx.printf("Local store:       %s (%s)\n", cfg.Local.Driver, cfg.LocalPath())
	dsn, source := cfg.SyncDSN()
	if dsn == "" {
		ctx.println("Synced store:      none (local only)")
	} else {
		ctx.printf("Synced store:      %s (from %s)\n", maskDSN(dsn), source)
	}
	ctx.printf("Notifications:     %s\n", cfg.Notifications.Mode)
	ctx.printf("Reminder policy:   %s\n", cfg.Timetable.ReminderPolicy)
	ctx.printf("Server address:    %s\n", cfg.Server.Addr)
	ctx.printf("Allowed origins:   %s\n", orNA(strings.Join(cfg.Server.AllowedOrigins, ", ")))
	ctx.printf("Alarm poll:        %s\n", cfg.Daemon.PollInterval.Duration)
	ctx.printf("Clipboard poll:    %s\n", cfg.Clipboard.PollInterval.Duration)
	return nil
}

func maskDSN(dsn string) string {
	if i := strings.Index(dsn, "://"); i != -1 {
		rest := dsn[i+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			if colon := strings.Index(rest[:at], ":"); colon != -1 {
				return dsn[:i+3] + rest[:colon] + ":****" + rest[at:]
			}
		}
		return dsn
	}
	fields := strings.Fields(dsn)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
