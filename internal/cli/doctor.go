package cli

import (
	"context"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/keyring"
	"github.com/julianstephens/unidash/internal/migration"
	"github.com/julianstephens/unidash/internal/storage/sqlite"
	"github.com/julianstephens/unidash/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	c := ctx.Context()
	hasError := false
	fail := func(name string, err error) {
		ctx.printf("❌ %s: FAIL\n", name)
		ctx.printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, err error) {
		ctx.printf("⚠ %s: WARNING\n", name)
		ctx.printf("   %v\n", err)
	}
	ok := func(name string) {
		ctx.printf("✓ %s: OK\n", name)
	}

	// Check 1: Local store reachable
	dbReachable := false
	if err := checkLocalReachable(c, ctx); err != nil {
		fail("Local store reachable", err)
	} else {
		ok("Local store reachable")
		dbReachable = true
	}

	// Check 2: Schema version
	if err := checkSchemaVersion(c, ctx); err != nil {
		fail("Schema version", err)
	} else {
		ok("Schema version")
	}

	// Check 3: Synced store
	if dsn, source := ctx.Config.SyncDSN(); dsn == "" {
		ctx.printf("⊘ Synced store: SKIPPED (not configured)\n")
	} else if !ctx.Store.Synced() {
		fail("Synced store", fmt.Errorf("configured from %s but not reachable; using local store only", source))
	} else {
		ok("Synced store")
	}

	// Check 4: Keyring (warning only)
	if !keyring.IsAvailable() {
		warn("OS keyring", fmt.Errorf("not available; use sync.dsn with ~/.pgpass instead"))
	} else {
		ok("OS keyring")
	}

	// Check 5: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		warn("Backups present", err)
	} else {
		ok("Backups present")
	}

	// Check 6: Data validation (only if the store is reachable)
	if dbReachable {
		if err := checkValidation(ctx); err != nil {
			fail("Data validation", err)
		} else {
			ok("Data validation")
		}
		if err := checkAlarms(c, ctx); err != nil {
			warn("Alarms", err)
		} else {
			ok("Alarms")
		}
	} else {
		ctx.printf("⊘ Data validation: SKIPPED (local store not reachable)\n")
	}

	// Check 7: Clock/timezone sanity
	if err := checkClockTimezone(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		ok("Clock/timezone")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkLocalReachable(c context.Context, ctx *Context) error {
	db, isSQLite := ctx.Store.Local().(*sqlite.Store)
	if !isSQLite {
		_, err := ctx.Store.Local().Get(c)
		return err
	}
	if db.DB() == nil {
		return fmt.Errorf("database connection is nil")
	}
	var result int
	if err := db.DB().QueryRowContext(c, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(c context.Context, ctx *Context) error {
	db, isSQLite := ctx.Store.Local().(*sqlite.Store)
	if !isSQLite {
		// The JSON store has no schema.
		return nil
	}
	if db.DB() == nil {
		return fmt.Errorf("database connection is nil")
	}

	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}
	runner := migration.NewRunner(db.DB(), sub, migration.SQLite)
	if err := runner.Validate(c); err != nil {
		return err
	}

	current, err := runner.CurrentVersion(c)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	all, err := runner.Migrations()
	if err != nil {
		return err
	}
	if len(all) > 0 && current < all[len(all)-1].Version {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, all[len(all)-1].Version)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return fmt.Errorf("snapshots are only taken with the sqlite local driver")
	}
	snaps, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'unidash backup create'")
	}
	return nil
}

func checkValidation(ctx *Context) error {
	doc := ctx.Service.Document()
	seen := make(map[int64]bool, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if seen[t.ID] {
			return fmt.Errorf("duplicate task ID found: %d", t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", t.ID, err)
		}
	}
	for _, n := range doc.Notes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("note for task %d: %w", n.TaskID, err)
		}
	}
	return nil
}

// checkAlarms reports deadline alarms whose task is gone. They fire with a
// blank title.
func checkAlarms(c context.Context, ctx *Context) error {
	list, err := ctx.Alarms.List(c)
	if err != nil {
		return err
	}
	doc := ctx.Service.Document()
	stale := 0
	for _, a := range list {
		kind, ref := alarms.ParseName(a.Name)
		if kind != alarms.KindDeadline {
			continue
		}
		id, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			stale++
			continue
		}
		if _, found := doc.TaskByID(id); !found {
			stale++
		}
	}
	if stale > 0 {
		return fmt.Errorf("%d of %d alarms point at deleted tasks", stale, len(list))
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		ctx.printf("   Note: timezone is UTC\n")
	}
	return nil
}
