// Package broadcast delivers a message to every subscriber through the
// retrying Bot API client.
package broadcast

import (
	"context"
	"log/slog"
	"time"

	"notifybot/internal/adapter/telegram/botapi"
	"notifybot/internal/shared"
	"notifybot/internal/storage"
	"notifybot/pkg/backoff"
)

// defaultPace keeps well under Telegram's ~30 messages/second bulk limit.
const defaultPace = 50 * time.Millisecond

// Sender sends a single message. Satisfied by *botapi.Client; the retry
// interceptor installed there makes each send resilient on its own.
type Sender interface {
	SendMessage(ctx context.Context, params botapi.SendMessageParams) (*botapi.Message, error)
}

// Report summarises one broadcast run.
type Report struct {
	Total     int
	Delivered int
	Failed    int
	Removed   int
}

// Broadcaster fans a message out to all subscribers.
type Broadcaster struct {
	store  storage.Subscribers
	sender Sender
	log    *slog.Logger
	pace   time.Duration
}

// Option configures Broadcaster.
type Option func(*Broadcaster)

// WithPace sets the delay between consecutive sends.
func WithPace(d time.Duration) Option {
	return func(b *Broadcaster) {
		if d >= 0 {
			b.pace = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Broadcaster) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates a Broadcaster.
func New(store storage.Subscribers, sender Sender, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		store:  store,
		sender: sender,
		log:    slog.Default(),
		pace:   defaultPace,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Send delivers text to every subscriber sequentially, pacing sends to stay
// under bulk limits. Chats that report the bot as blocked are dropped from
// the store. Send stops early only when ctx is canceled.
func (b *Broadcaster) Send(ctx context.Context, text string) (Report, error) {
	subs, err := b.store.All(ctx)
	if err != nil {
		return Report{}, shared.Wrap(err, "broadcast")
	}

	rep := Report{Total: len(subs)}
	for i, sub := range subs {
		if i > 0 && b.pace > 0 {
			if err := backoff.Sleep(ctx, b.pace); err != nil {
				return rep, err
			}
		}

		_, err := b.sender.SendMessage(ctx, botapi.SendMessageParams{
			ChatID: sub.ChatID,
			Text:   text,
		})
		if err == nil {
			rep.Delivered++
			continue
		}
		if shared.IsCanceled(err) {
			return rep, err
		}

		rep.Failed++
		if apiErr, ok := botapi.AsError(err); ok && apiErr.Code == 403 {
			// bot was blocked or kicked; keeping the chat only burns budget
			if rmErr := b.store.Remove(ctx, sub.ChatID); rmErr != nil {
				b.log.Warn("drop blocked chat",
					slog.Int64("chat_id", sub.ChatID),
					slog.Any("error", rmErr))
			} else {
				rep.Removed++
			}
		}
		b.log.Warn("broadcast send failed",
			slog.Int64("chat_id", sub.ChatID),
			slog.Any("error", err))
	}

	b.log.Info("broadcast finished",
		slog.Int("total", rep.Total),
		slog.Int("delivered", rep.Delivered),
		slog.Int("failed", rep.Failed),
		slog.Int("removed", rep.Removed))
	return rep, nil
}
