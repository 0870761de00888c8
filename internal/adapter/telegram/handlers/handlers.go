// Package handlers implements the bot's command handlers.
package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"notifybot/internal/broadcast"
	"notifybot/internal/storage"
)

// Handlers routes commands to their implementations.
type Handlers struct {
	store storage.Subscribers
	bcast *broadcast.Broadcaster
	log   *slog.Logger
}

// New creates command handlers over the subscriber store and broadcaster.
func New(store storage.Subscribers, bcast *broadcast.Broadcaster, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{store: store, bcast: bcast, log: log}
}

// Handle routes updates to command handlers.
func (h *Handlers) Handle(ctx context.Context, b *bot.Bot, upd *models.Update) {
	msg := upd.Message
	if msg == nil || !strings.HasPrefix(msg.Text, "/") {
		return
	}
	cmd, args, _ := strings.Cut(msg.Text, " ")
	cmd = strings.TrimPrefix(cmd, "/")
	// commands in groups arrive as /cmd@botname
	cmd, _, _ = strings.Cut(cmd, "@")

	switch cmd {
	case "start":
		h.Start(ctx, b, msg)
	case "stop":
		h.Stop(ctx, b, msg)
	case "ping":
		h.Ping(ctx, b, msg)
	case "broadcast":
		h.Broadcast(ctx, b, msg, strings.TrimSpace(args))
	}
}

func (h *Handlers) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if b == nil {
		return
	}
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		h.log.Warn("send reply", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}
