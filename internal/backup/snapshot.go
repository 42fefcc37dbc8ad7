package backup

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
)

// Snapshot timestamp layouts. The seconds form is used when a minute
// snapshot already exists.
const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// Snapshot describes one database copy in the backup directory.
type Snapshot struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager takes and restores copies of the local SQLite database.
type Manager struct {
	dbPath string
	dir    string
	keep   int
	now    func() time.Time
}

// NewManager keeps snapshots in a "backups" directory next to dbPath.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:   constants.MaxBackups,
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a new snapshot and prunes the oldest beyond the retention
// limit.
func (m *Manager) Create(ctx context.Context) (string, error) {
	path, err := m.create(ctx)
	if err != nil {
		return "", err
	}
	if err := m.prune(); err != nil {
		logger.Warn("Failed to prune old snapshots", "dir", m.dir, "error", err)
	}
	return path, nil
}

func (m *Manager) create(ctx context.Context) (string, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := vacuumInto(ctx, m.dbPath, dest); err != nil {
		return "", fmt.Errorf("failed to snapshot database: %w", err)
	}
	logger.Info("Snapshot created", "path", dest)
	return dest, nil
}

func (m *Manager) nextPath() (string, error) {
	now := m.now()
	candidate := m.pathFor(now.Format(minuteLayout))
	if !exists(candidate) {
		return candidate, nil
	}
	stamp := now.Format(secondLayout)
	candidate = m.pathFor(stamp)
	for n := 1; exists(candidate); n++ {
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique snapshot filename")
		}
		candidate = m.pathFor(fmt.Sprintf("%s-%d", stamp, n))
	}
	return candidate, nil
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.dir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
}

// vacuumInto copies src with VACUUM INTO, falling back to a file copy when
// the engine refuses.
func vacuumInto(ctx context.Context, src, dest string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := checkDatabase(ctx, db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(src, dest)
	}
	return nil
}

func checkDatabase(ctx context.Context, db *sql.DB) error {
	var n int
	return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

// List returns the snapshots newest first. Files that do not look like
// snapshots are skipped.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseSnapshotName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Snapshot{
			Path:      filepath.Join(m.dir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}
	slices.SortStableFunc(out, func(a, b Snapshot) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out, nil
}

// parseSnapshotName reads the timestamp out of
// "unidash-YYYYMMDD-HHMM[SS][-N].db".
func parseSnapshotName(name string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, constants.BackupFilePrefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok = strings.CutSuffix(stamp, constants.BackupFileSuffix)
	if !ok {
		return time.Time{}, false
	}
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) prune() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", snaps[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first (without pruning) so a restore can be
// undone. The caller must close any open handle on the database.
func (m *Manager) Restore(ctx context.Context, path string) (string, error) {
	if !exists(path) {
		return "", fmt.Errorf("snapshot does not exist: %s", path)
	}
	if err := verify(ctx, path); err != nil {
		return "", fmt.Errorf("snapshot is corrupted or invalid: %w", err)
	}

	var previous string
	if exists(m.dbPath) {
		p, err := m.create(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to snapshot current database before restore: %w", err)
		}
		previous = p
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy snapshot: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Database restored", "from", path, "previous", previous)
	return previous, nil
}

func verify(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return checkDatabase(ctx, db)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
