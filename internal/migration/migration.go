package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	Name string
	// Placeholder returns the bind parameter for the n-th (1-based) argument.
	Placeholder func(n int) string
}

var (
	SQLite   = Dialect{Name: "sqlite", Placeholder: func(int) string { return "?" }}
	Postgres = Dialect{Name: "postgres", Placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}
)

// ErrSchemaTooNew is returned when the database was written by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than supported version")

// Runner manages database schema migrations
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

// NewRunner creates a new migration runner over the *.sql files at the root of migrationFS.
func NewRunner(db *sql.DB, migrationFS fs.FS, dialect Dialect) *Runner {
	return &Runner{
		db:      db,
		fs:      migrationFS,
		dialect: dialect,
	}
}

func (r *Runner) ensureSchemaVersionTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`)
	return err
}

// CurrentVersion returns the schema version recorded in the database, 0 for a fresh database.
func (r *Runner) CurrentVersion(ctx context.Context) (int, error) {
	if err := r.ensureSchemaVersionTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	var version int
	err := r.db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// Migrations reads and parses the migration files, sorted by version.
func (r *Runner) Migrations() ([]Migration, error) {
	files, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		// "001_init.sql" -> 1
		parts := strings.SplitN(file.Name(), "_", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", file.Name())
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid version number in filename %s: %w", file.Name(), err)
		}
		if version < 1 {
			return nil, fmt.Errorf("invalid version number in filename %s: version must be at least 1", file.Name())
		}

		content, err := fs.ReadFile(r.fs, file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// Apply runs every pending migration, each in its own transaction, and
// returns how many were applied.
func (r *Runner) Apply(ctx context.Context, logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return 0, err
	}
	migrations, err := r.Migrations()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}

	latest := migrations[len(migrations)-1].Version
	if current > latest {
		return 0, fmt.Errorf("%w: database is at %d, this build supports %d", ErrSchemaTooNew, current, latest)
	}

	start := time.Now()
	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		logFn(fmt.Sprintf("Applying %s migration %d: %s", r.dialect.Name, m.Version, m.Name))
		if err := r.applyOne(ctx, m); err != nil {
			return applied, err
		}
		applied++
	}

	if applied > 0 {
		logFn(fmt.Sprintf("Applied %d migration(s) in %v", applied, time.Since(start)))
	}
	return applied, nil
}

func (r *Runner) applyOne(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear version in migration %d: %w", m.Version, err)
	}
	insert := "INSERT INTO schema_version (version) VALUES (" + r.dialect.Placeholder(1) + ")"
	if _, err := tx.ExecContext(ctx, insert, m.Version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to set version in migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// Validate checks that the database is not newer than this build.
func (r *Runner) Validate(ctx context.Context) error {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	migrations, err := r.Migrations()
	if err != nil {
		return err
	}
	latest := 0
	if len(migrations) > 0 {
		latest = migrations[len(migrations)-1].Version
	}
	if current > latest {
		return fmt.Errorf("%w: database is at %d, this build supports %d", ErrSchemaTooNew, current, latest)
	}
	return nil
}
