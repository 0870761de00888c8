package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Broadcast handles /broadcast <text>: sends text to every subscriber.
// Admin access is enforced by middleware before the update gets here.
func (h *Handlers) Broadcast(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	if text == "" {
		h.reply(ctx, b, msg.Chat.ID, "использование: /broadcast <текст>")
		return
	}

	rep, err := h.bcast.Send(ctx, text)
	if err != nil {
		h.log.Error("broadcast command", slog.Any("error", err))
		h.reply(ctx, b, msg.Chat.ID, "рассылка прервана")
		return
	}
	h.reply(ctx, b, msg.Chat.ID,
		fmt.Sprintf("доставлено %d из %d", rep.Delivered, rep.Total))
}
