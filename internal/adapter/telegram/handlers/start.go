package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Start handles /start: subscribes the chat to broadcasts.
func (h *Handlers) Start(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if err := h.store.Add(ctx, msg.Chat.ID); err != nil {
		h.log.Error("subscribe", slog.Int64("chat_id", msg.Chat.ID), slog.Any("error", err))
		h.reply(ctx, b, msg.Chat.ID, "не получилось, попробуйте позже")
		return
	}
	h.reply(ctx, b, msg.Chat.ID, "подписка оформлена")
}

// Stop handles /stop: unsubscribes the chat.
func (h *Handlers) Stop(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if err := h.store.Remove(ctx, msg.Chat.ID); err != nil {
		h.log.Error("unsubscribe", slog.Int64("chat_id", msg.Chat.ID), slog.Any("error", err))
		h.reply(ctx, b, msg.Chat.ID, "не получилось, попробуйте позже")
		return
	}
	h.reply(ctx, b, msg.Chat.ID, "подписка отключена")
}
