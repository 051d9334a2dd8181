package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/lifeos/internal/filex"
	"github.com/dmitrijs2005/lifeos/internal/persist"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return errNotLoggedIn
	}
	return nil
}

// Export writes the active user's data as a single JSON backup file under
// the configured backup directory.
func (a *App) Export(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	bundle, err := a.data.ExportNamespace(ctx)
	if err != nil {
		printlnFn("Export failed:", err)
		return err
	}

	dir, err := filex.EnsureSubDir(a.config.BackupDir)
	if err != nil {
		printlnFn("Export failed:", err)
		return err
	}

	name := fmt.Sprintf("lifeos_backup_%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bundle, 0o600); err != nil {
		printlnFn("Export failed:", err)
		return err
	}

	printlnFn("Backup written to", path)
	return nil
}

// Import restores the active user's data from a backup file produced by
// Export. A malformed file changes nothing.
func (a *App) Import(ctx context.Context, path string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Import failed:", err)
		return err
	}

	if err := a.data.ImportNamespace(ctx, data); err != nil {
		if errors.Is(err, persist.ErrMalformedImport) {
			printlnFn("Invalid backup file, nothing was changed.")
		} else {
			printlnFn("Import failed:", err)
		}
		return err
	}

	printlnFn("Data restored.")
	return nil
}

// Wipe deletes every known key in the active user's namespace after an
// explicit confirmation.
func (a *App) Wipe(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	answer, err := GetSimpleText(a.reader, "This deletes all of your data. Type 'yes' to continue", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.data.ClearNamespace(ctx); err != nil {
		printlnFn("Wipe failed:", err)
		return err
	}

	printlnFn("All data removed.")
	return nil
}
