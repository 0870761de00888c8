// Package storage defines the subscriber store consumed by the bot and the
// broadcaster. Implementations live in sqlitestore and pgstore.
package storage

import (
	"context"
	"time"
)

// Subscriber is a chat that receives broadcasts.
type Subscriber struct {
	ChatID  int64
	AddedAt time.Time
}

// Subscribers stores broadcast recipients.
type Subscribers interface {
	// Add registers a chat. Adding an existing chat is not an error.
	Add(ctx context.Context, chatID int64) error
	// Remove deletes a chat. Removing an unknown chat is not an error.
	Remove(ctx context.Context, chatID int64) error
	// All returns every subscriber ordered by chat ID.
	All(ctx context.Context) ([]Subscriber, error)
	// Count returns the number of subscribers.
	Count(ctx context.Context) (int, error)
}
