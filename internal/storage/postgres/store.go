package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/migration"
	"github.com/julianstephens/unidash/internal/storage"
	"github.com/julianstephens/unidash/migrations"
)

// Store is the synced key/value store. Every device pointed at the same
// database sees the same document.
type Store struct {
	connStr string
	db      *sql.DB
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func New(connStr string) *Store {
	s := &Store{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

func (s *Store) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	} else if !hasSearchPathParam(s.connStr) {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasSearchPathParam reports whether a DSN-style connection string sets
// search_path (case-insensitive).
func hasSearchPathParam(connStr string) bool {
	return hasDSNKey(connStr, "search_path")
}

// hasSSLMode reports whether a URL or DSN connection string sets sslmode.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasDSNKey(connStr, "sslmode")
}

func hasDSNKey(connStr, name string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], name) {
			return true
		}
	}
	return false
}

// ValidateConnString checks that connStr is a PostgreSQL URI or DSN and
// that it carries no password. It is applied to connection strings from the
// config file and environment; passwords belong in ~/.pgpass, PGPASSWORD or
// the OS keyring.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

// Name never includes the connection string.
func (s *Store) Name() string {
	return "postgresql"
}

func (s *Store) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.AppName); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.db = db

	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS, migration.Postgres)
	_, err = runner.Apply(ctx, func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if s.db == nil {
		return nil, storage.ErrNotInitialized
	}

	var (
		rows *sql.Rows
		err  error
	)
	if len(keys) == 0 {
		rows, err = s.db.QueryContext(ctx, "SELECT key, value FROM kv")
	} else {
		rows, err = s.db.QueryContext(ctx, "SELECT key, value FROM kv WHERE key = ANY($1)", pq.Array(keys))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query kv: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var value []byte
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

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, v := range values {
		if _, err := stmt.ExecContext(ctx, k, string(v)); err != nil {
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
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ANY($1)", pq.Array(keys)); err != nil {
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

var _ storage.Backend = (*Store)(nil)
