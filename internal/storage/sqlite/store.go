package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/migration"
	"github.com/julianstephens/unidash/internal/storage"
	"github.com/julianstephens/unidash/migrations"
)

// Store is the local key/value mirror backed by a SQLite file.
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Name() string {
	return "sqlite:" + s.path
}

func (s *Store) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	s.db = db

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("failed to configure database: %w", err)
	}

	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS, migration.SQLite)
	_, err = runner.Apply(ctx, func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if s.db == nil {
		return nil, storage.ErrNotInitialized
	}

	query := "SELECT key, value FROM kv"
	args := make([]any, 0, len(keys))
	if len(keys) > 0 {
		query += " WHERE key IN (" + strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",") + ")"
		for _, k := range keys {
			args = append(args, k)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query kv: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = json.RawMessage(value)
	}
	return out, rows.Err()
}

func (s *Store) Set(ctx context.Context, values map[string]json.RawMessage) error {
	if s.db == nil {
		return storage.ErrNotInitialized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range values {
		if _, err := stmt.ExecContext(ctx, k, string(v), now); err != nil {
			return fmt.Errorf("failed to write %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if s.db == nil {
		return storage.ErrNotInitialized
	}
	if len(keys) == 0 {
		return nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query := "DELETE FROM kv WHERE key IN (" + strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",") + ")"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove keys: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying connection, or nil before Init.
func (s *Store) DB() *sql.DB {
	return s.db
}

var _ storage.Backend = (*Store)(nil)
