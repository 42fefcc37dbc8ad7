package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/unidash/internal/constants"
)

var errNoDatabase = errors.New("snapshots need the sqlite local driver")

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return errNoDatabase
	}
	path, err := mgr.Create(ctx.Context())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return errNoDatabase
	}
	snaps, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(snaps) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(snaps), constants.MaxBackups)
	for _, s := range snaps {
		ctx.printf("  %s  %s  (%.1f KB)\n", s.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(s.Path), float64(s.Size)/1024.0)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`

	in io.Reader
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return errNoDatabase
	}

	path := c.BackupFile
	if !filepath.IsAbs(path) {
		if candidate := filepath.Join(mgr.Dir(), path); fileExists(candidate) {
			path = candidate
		}
	}
	if !fileExists(path) {
		return fmt.Errorf("backup file not found: %s", path)
	}

	if !c.Yes {
		ctx.println("⚠ This will replace your local database with the backup.")
		ctx.println("A snapshot of the current database is taken first.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(path))
		ctx.printf("Continue? [y/N]: ")

		in := c.in
		if in == nil {
			in = os.Stdin
		}
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	previous, err := mgr.Restore(ctx.Context(), path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.println("✓ Database restored successfully!")
	if previous != "" {
		ctx.printf("  Previous database saved as %s\n", filepath.Base(previous))
	}
	ctx.println("Restart any running unidash processes to use the restored database.")
	if ctx.Store.Synced() {
		ctx.println("Note: the synced store was not changed; its values still take precedence.")
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
