package migration

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_kv.sql":    {Data: []byte("CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT);")},
		"002_extra.sql": {Data: []byte("CREATE TABLE extra (id INTEGER);")},
		"README.md":     {Data: []byte("ignored")},
	}
	runner := NewRunner(db, fsys, SQLite)

	version, err := runner.CurrentVersion(ctx)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 on fresh database, got %d", version)
	}

	var logs []string
	applied, err := runner.Apply(ctx, func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, _ = runner.CurrentVersion(ctx)
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	// Second run is a no-op.
	applied, err = runner.Apply(ctx, nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no migrations on second run, got %d", applied)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_ok.sql":  {Data: []byte("CREATE TABLE ok (id INTEGER);")},
		"002_bad.sql": {Data: []byte("CREATE TABLE broken (;")},
	}
	runner := NewRunner(db, fsys, SQLite)

	applied, err := runner.Apply(ctx, nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", applied)
	}
	version, _ := runner.CurrentVersion(ctx)
	if version != 1 {
		t.Errorf("expected version to stay at 1, got %d", version)
	}
}

func TestMigrationsRejectsBadNames(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no underscore": {"001.sql": {Data: []byte("SELECT 1;")}},
		"not a number":  {"abc_init.sql": {Data: []byte("SELECT 1;")}},
		"zero version":  {"000_init.sql": {Data: []byte("SELECT 1;")}},
		"duplicate": {
			"001_a.sql": {Data: []byte("SELECT 1;")},
			"01_b.sql":  {Data: []byte("SELECT 1;")},
		},
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			runner := NewRunner(nil, fsys, SQLite)
			if _, err := runner.Migrations(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateRejectsNewerSchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{"001_kv.sql": {Data: []byte("CREATE TABLE kv (key TEXT);")}}
	runner := NewRunner(db, fsys, SQLite)
	if _, err := runner.Apply(ctx, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}

	if err := runner.Validate(ctx); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("expected ErrSchemaTooNew, got %v", err)
	}
}

func TestPostgresPlaceholder(t *testing.T) {
	if got := Postgres.Placeholder(2); got != "$2" {
		t.Errorf("Postgres.Placeholder(2) = %q", got)
	}
	if got := SQLite.Placeholder(2); got != "?" {
		t.Errorf("SQLite.Placeholder(2) = %q", got)
	}
}
