package sqlite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite" // driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// BuildMigrateURL builds a golang-migrate database URL for an SQLite file,
// accounting for OS path quirks ("C:\..." on Windows).
func BuildMigrateURL(dbPath string) (string, error) {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("resolve db path: %w", err)
	}

	urlPath := filepath.ToSlash(absPath)
	if runtime.GOOS == "windows" && len(urlPath) >= 2 && urlPath[1] == ':' {
		urlPath = "/" + urlPath
	}
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	return "sqlite://" + urlPath, nil
}

// ApplyMigrations applies all pending migrations from src/dir to the database
// at dbPath, creating the parent directory when needed. Safe to call
// repeatedly; no pending migrations is not an error.
func ApplyMigrations(dbPath string, src fs.FS, dir string) error {
	if parent := filepath.Dir(dbPath); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create db directory %s: %w", parent, err)
		}
	}

	databaseURL, err := BuildMigrateURL(dbPath)
	if err != nil {
		return err
	}

	source, err := iofs.New(src, dir)
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
