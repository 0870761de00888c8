package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Ping handles /ping.
func (h *Handlers) Ping(ctx context.Context, b *bot.Bot, msg *models.Message) {
	n, err := h.store.Count(ctx)
	if err != nil {
		h.reply(ctx, b, msg.Chat.ID, "pong")
		return
	}
	h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("pong, подписчиков: %d", n))
}
