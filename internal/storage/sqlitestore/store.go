// Package sqlitestore implements the subscriber store on SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"time"

	"notifybot/internal/platform/sqlite"
	"notifybot/internal/shared"
	"notifybot/internal/storage"
	"notifybot/internal/storage/migrations"
)

// Store persists subscribers in an SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a Store over an already-opened database.
func New(db *sql.DB) *Store { return &Store{db: db} }

// Open opens the database at path, applies migrations and returns a Store.
func Open(ctx context.Context, path string) (*Store, *sql.DB, error) {
	if err := sqlite.ApplyMigrations(path, migrations.SQLite, "sqlite"); err != nil {
		return nil, nil, shared.Wrap(err, "migrate sqlite store")
	}
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, shared.Wrap(err, "open sqlite store")
	}
	return New(db), db, nil
}

// Add registers a chat; replays are ignored.
func (s *Store) Add(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscribers (chat_id, added_at) VALUES (?, ?) ON CONFLICT (chat_id) DO NOTHING`,
		chatID, time.Now().UTC())
	return shared.Wrapf(err, "add subscriber %d", chatID)
}

// Remove deletes a chat; unknown chats are ignored.
func (s *Store) Remove(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM subscribers WHERE chat_id = ?`, chatID)
	return shared.Wrapf(err, "remove subscriber %d", chatID)
}

// All returns every subscriber ordered by chat ID.
func (s *Store) All(ctx context.Context) ([]storage.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id, added_at FROM subscribers ORDER BY chat_id`)
	if err != nil {
		return nil, shared.Wrap(err, "list subscribers")
	}
	defer rows.Close()

	var subs []storage.Subscriber
	for rows.Next() {
		var sub storage.Subscriber
		if err := rows.Scan(&sub.ChatID, &sub.AddedAt); err != nil {
			return nil, shared.Wrap(err, "scan subscriber")
		}
		subs = append(subs, sub)
	}
	return subs, shared.Wrap(rows.Err(), "list subscribers")
}

// Count returns the number of subscribers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&n)
	return n, shared.Wrap(err, "count subscribers")
}

var _ storage.Subscribers = (*Store)(nil)
