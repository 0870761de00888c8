// Package sqlite opens and migrates the embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // driver
)

// Options contains SQLite connection settings.
type Options struct {
	// BusyTimeout is how long a statement waits on SQLITE_BUSY.
	BusyTimeout time.Duration
	// WALMode enables write-ahead logging.
	WALMode bool
	// ForeignKeys enables foreign key enforcement.
	ForeignKeys bool
	// PingTimeout bounds the connectivity check on open.
	PingTimeout time.Duration
	// MaxOpenConns caps the pool; SQLite has a single writer.
	MaxOpenConns int
}

// DefaultOptions returns settings suited for an embedded bot database.
func DefaultOptions() Options {
	return Options{
		BusyTimeout:  5 * time.Second,
		WALMode:      true,
		ForeignKeys:  true,
		PingTimeout:  5 * time.Second,
		MaxOpenConns: 4,
	}
}

// Open opens the database at path with default options, creating the parent
// directory when needed.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	return OpenWithOptions(ctx, path, DefaultOptions())
}

// OpenWithOptions opens the database at path with the given options.
func OpenWithOptions(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory %s: %w", dir, err)
		}
	}

	dsn := path
	if opts.BusyTimeout > 0 {
		dsn = fmt.Sprintf("%s?_busy_timeout=%d", path, opts.BusyTimeout.Milliseconds())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := applyPragmas(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenInMemory opens an in-memory database for tests. The pool is limited to
// one connection so every statement sees the same schema.
func OpenInMemory(ctx context.Context) (*sql.DB, error) {
	opts := DefaultOptions()
	opts.WALMode = false // not supported in-memory
	opts.MaxOpenConns = 1
	return OpenWithOptions(ctx, ":memory:", opts)
}

func applyPragmas(ctx context.Context, db *sql.DB, opts Options) error {
	if opts.WALMode {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("enable WAL: %w", err)
		}
	}
	if opts.ForeignKeys {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
			return fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	return nil
}
