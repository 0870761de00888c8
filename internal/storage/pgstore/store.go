// Package pgstore implements the subscriber store on PostgreSQL.
package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"notifybot/internal/platform/pg"
	"notifybot/internal/shared"
	"notifybot/internal/storage"
	"notifybot/internal/storage/migrations"
)

// Store persists subscribers in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over an existing pool.
func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

// Open connects to dsn, applies migrations and returns a Store.
func Open(ctx context.Context, dsn string) (*Store, *pgxpool.Pool, error) {
	if err := pg.ApplyMigrations(dsn, migrations.Postgres, "postgres"); err != nil {
		return nil, nil, shared.Wrap(err, "migrate pg store")
	}
	pool, err := pg.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, shared.Wrap(err, "open pg store")
	}
	return New(pool), pool, nil
}

// Add registers a chat; replays are ignored.
func (s *Store) Add(ctx context.Context, chatID int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscribers (chat_id, added_at) VALUES ($1, now()) ON CONFLICT (chat_id) DO NOTHING`,
		chatID)
	return shared.Wrapf(err, "add subscriber %d", chatID)
}

// Remove deletes a chat; unknown chats are ignored.
func (s *Store) Remove(ctx context.Context, chatID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM subscribers WHERE chat_id = $1`, chatID)
	return shared.Wrapf(err, "remove subscriber %d", chatID)
}

// All returns every subscriber ordered by chat ID.
func (s *Store) All(ctx context.Context) ([]storage.Subscriber, error) {
	rows, err := s.pool.Query(ctx,
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
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&n)
	return n, shared.Wrap(err, "count subscribers")
}

var _ storage.Subscribers = (*Store)(nil)
