package telegram

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Update aliases models.Update for brevity.
type Update = models.Update

// HandlerFunc processes a single update.
type HandlerFunc func(ctx context.Context, b *bot.Bot, upd *models.Update)

type ctxUpdate struct {
	ctx context.Context
	upd *models.Update
}

// Dispatcher routes updates to worker goroutines keeping per-chat order:
// updates of one chat always land on the same worker.
type Dispatcher struct {
	bot     *bot.Bot
	handler HandlerFunc
	chans   []chan ctxUpdate
	wg      sync.WaitGroup
	once    sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher with the given worker count.
func NewDispatcher(b *bot.Bot, workers int, h HandlerFunc) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{bot: b, handler: h, chans: make([]chan ctxUpdate, workers)}
	for i := range d.chans {
		d.chans[i] = make(chan ctxUpdate, 100)
		d.wg.Add(1)
		go d.worker(d.chans[i])
	}
	return d
}

// Dispatch hands the update to the worker owning its chat. Updates arriving
// after Close are dropped: the bot framework may deliver a final update
// while shutdown is already under way.
func (d *Dispatcher) Dispatch(ctx context.Context, upd *models.Update) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	idx := 0
	if chatID := extractChatID(upd); chatID != 0 {
		idx = int(abs(chatID)) % len(d.chans)
	}
	d.chans[idx] <- ctxUpdate{ctx: ctx, upd: upd}
}

// Close stops accepting updates and waits for in-flight ones to finish.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		for _, ch := range d.chans {
			close(ch)
		}
		d.wg.Wait()
	})
}

func (d *Dispatcher) worker(in <-chan ctxUpdate) {
	defer d.wg.Done()
	for item := range in {
		d.handler(item.ctx, d.bot, item.upd)
	}
}

func extractChatID(u *models.Update) int64 {
	if u.Message != nil {
		return u.Message.Chat.ID
	}
	if u.CallbackQuery != nil && u.CallbackQuery.Message.Message != nil {
		return u.CallbackQuery.Message.Message.Chat.ID
	}
	return 0
}

func abs(i int64) int64 {
	if i < 0 {
		return -i
	}
	return i
}
