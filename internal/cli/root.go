package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/backup"
	"github.com/julianstephens/unidash/internal/clipboard"
	"github.com/julianstephens/unidash/internal/config"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/dashboard"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/notifier"
	"github.com/julianstephens/unidash/internal/state"
	"github.com/julianstephens/unidash/internal/storage"
	"github.com/julianstephens/unidash/internal/storage/postgres"
	"github.com/julianstephens/unidash/internal/storage/sqlite"
	"github.com/julianstephens/unidash/internal/timer"
)

// Context carries the wired services into every command's Run method.
type Context struct {
	Config     config.Config
	ConfigPath string
	Store      *storage.Store
	State      *state.Store
	Service    *dashboard.Service
	Alarms     *alarms.Registry
	Clipboard  clipboard.Clipboard
	Out        io.Writer
	Now        func() time.Time

	// NotifierOverride replaces the configured notifier (tests).
	NotifierOverride notifier.Notifier

	base context.Context
}

// Open builds the storage stack for cfg and loads the document. The
// returned Context owns the store; call Close when done.
func Open(ctx context.Context, cfg config.Config, configPath string) (*Context, error) {
	var local storage.Backend
	if cfg.Local.Driver == constants.LocalDriverJSON {
		local = storage.NewJSONStore(cfg.LocalPath())
	} else {
		local = sqlite.NewStore(cfg.LocalPath())
	}

	var synced storage.Backend
	if dsn, source := cfg.SyncDSN(); dsn != "" {
		logger.Debug("Using synced store", "source", source)
		synced = postgres.New(dsn)
	}

	var clip clipboard.Clipboard
	if clipboard.Available() {
		clip = clipboard.System{}
	}

	return NewContext(ctx, cfg, configPath, storage.New(local, synced), clip, os.Stdout)
}

// NewContext initializes store, loads the document and wires the services
// on top of it.
func NewContext(ctx context.Context, cfg config.Config, configPath string, store *storage.Store, clip clipboard.Clipboard, out io.Writer) (*Context, error) {
	if err := store.Init(ctx); err != nil {
		return nil, err
	}

	st := state.New(store)
	if err := st.Load(ctx); err != nil {
		store.Close()
		return nil, err
	}

	registry := alarms.NewRegistry(store)
	svc := dashboard.New(dashboard.Deps{
		State:          st,
		Alarms:         registry,
		Local:          store,
		Clipboard:      clip,
		ReminderPolicy: cfg.Timetable.ReminderPolicy,
	})

	return &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Store:      store,
		State:      st,
		Service:    svc,
		Alarms:     registry,
		Clipboard:  clip,
		Out:        out,
		Now:        time.Now,
		base:       ctx,
	}, nil
}

// Context is the process context commands pass to blocking calls. It is
// cancelled on SIGINT/SIGTERM.
func (c *Context) Context() context.Context {
	if c.base == nil {
		return context.Background()
	}
	return c.base
}

func (c *Context) Close() error {
	return c.Store.Close()
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// NewEngine returns a timer engine that logs sessions through the service.
func (c *Context) NewEngine(opts ...timer.Option) *timer.Engine {
	return timer.NewEngine(c.Service, c.Service.Settings, opts...)
}

// Notifier returns the configured notification sink.
func (c *Context) Notifier() (notifier.Notifier, error) {
	if c.NotifierOverride != nil {
		return c.NotifierOverride, nil
	}
	return notifier.New(c.Config.Notifications.Mode, c.Out)
}

// Backups returns the snapshot manager for the local SQLite database, or
// nil when the local driver has no database file.
func (c *Context) Backups() *backup.Manager {
	db, ok := c.Store.Local().(*sqlite.Store)
	if !ok {
		return nil
	}
	return backup.NewManager(db.Path())
}

// PerformAutomaticBackup snapshots the local database and logs failures.
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	mgr := c.Backups()
	if mgr == nil {
		return
	}
	if path, err := mgr.Create(ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	} else {
		logger.Debug("Automatic backup created", "path", path)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", s)
	}
	return id, nil
}

func checkmark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
