package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"notifybot/internal/adapter/telegram"
)

// AdminGate blocks a configured set of commands for non-admin users.
// Updates that are not guarded commands pass through untouched.
type AdminGate struct {
	admins   map[int64]struct{}
	commands map[string]struct{}
}

// NewAdminGate creates a gate allowing ids to run the given commands
// (without the leading slash).
func NewAdminGate(ids []int64, commands ...string) *AdminGate {
	g := &AdminGate{
		admins:   make(map[int64]struct{}, len(ids)),
		commands: make(map[string]struct{}, len(commands)),
	}
	for _, id := range ids {
		g.admins[id] = struct{}{}
	}
	for _, c := range commands {
		g.commands[strings.TrimPrefix(c, "/")] = struct{}{}
	}
	return g
}

// IsAdmin reports whether the user may run guarded commands.
func (g *AdminGate) IsAdmin(id int64) bool {
	_, ok := g.admins[id]
	return ok
}

// Middleware rejects guarded commands from non-admins.
func (g *AdminGate) Middleware(next telegram.HandlerFunc) telegram.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, upd *models.Update) {
		msg := upd.Message
		if msg == nil || !strings.HasPrefix(msg.Text, "/") {
			next(ctx, b, upd)
			return
		}
		cmd := strings.TrimPrefix(strings.SplitN(msg.Text, " ", 2)[0], "/")
		if _, guarded := g.commands[cmd]; !guarded {
			next(ctx, b, upd)
			return
		}
		if msg.From != nil && g.IsAdmin(msg.From.ID) {
			next(ctx, b, upd)
			return
		}
		if b != nil {
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: msg.Chat.ID,
				Text:   "доступ запрещен",
			})
		}
	}
}

// ParseIDs parses a list of user IDs from a string (comma or newline
// separated). Malformed entries are skipped.
func ParseIDs(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\t' || r == ' '
	})
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		out = append(out, id)
	}
	return out
}
