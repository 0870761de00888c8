// Package app wires application components and runs the bot.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"notifybot/internal/adapter/scheduler"
	"notifybot/internal/adapter/telegram"
	"notifybot/internal/adapter/telegram/apiretry"
	"notifybot/internal/adapter/telegram/botapi"
	"notifybot/internal/adapter/telegram/handlers"
	"notifybot/internal/adapter/telegram/middleware"
	"notifybot/internal/broadcast"
	"notifybot/internal/config"
	"notifybot/internal/platform/httpclient"
	"notifybot/internal/platform/logger"
	"notifybot/internal/storage"
	"notifybot/internal/storage/pgstore"
	"notifybot/internal/storage/sqlitestore"
)

// App wires application components.
type App struct {
	cfg config.Config
	log *slog.Logger
}

// New creates a new App instance and loads configuration.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "notifybot",
	})
	return &App{cfg: cfg, log: log}, nil
}

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.log.Info("starting")
	defer func() { _ = logger.Close(a.log) }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	// outbound pipeline: http client -> bot api client -> retry interceptor
	hc := httpclient.New(
		httpclient.WithLogger(a.log),
		httpclient.WithURLRedactor(redactBotURL),
	)
	interceptor := apiretry.New(apiretry.Config{
		MaxDelay:            a.cfg.Retry.MaxDelay,
		MaxRetryAttempts:    a.cfg.Retry.MaxAttempts,
		RethrowServerErrors: a.cfg.Retry.RethrowServerErrors,
		LoggingEnabled:      a.cfg.Retry.Logging,
		Logger:              a.log,
	})
	api := botapi.New(a.cfg.Telegram.Token,
		botapi.WithHTTPClient(hc),
		botapi.WithLogger(a.log),
		botapi.WithInterceptor(interceptor.Wrap),
	)

	if me, err := api.GetMe(ctx); err != nil {
		a.log.Warn("getMe failed", slog.Any("error", err))
	} else {
		a.log.Info("bot authorized", slog.String("username", me.Username))
	}

	bcast := broadcast.New(store, api,
		broadcast.WithLogger(a.log),
		broadcast.WithPace(a.cfg.Broadcast.Pace),
	)

	// inbound pipeline: bot framework -> dispatcher -> middleware -> handlers
	admins := middleware.ParseIDs(a.cfg.AdminIDs)
	rate := middleware.NewRateLimiter(time.Second)
	gate := middleware.NewAdminGate(admins, "broadcast")
	h := handlers.New(store, bcast, a.log)
	handler := middleware.Chain(h.Handle, rate.Middleware, gate.Middleware)

	var disp *telegram.Dispatcher
	opts := []bot.Option{
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, upd *models.Update) {
			disp.Dispatch(ctx, upd)
		}),
		bot.WithAllowedUpdates([]string{"message"}),
	}
	if a.cfg.Telegram.WebhookSecret != "" {
		opts = append(opts, bot.WithWebhookSecretToken(a.cfg.Telegram.WebhookSecret))
	}

	b, err := bot.New(a.cfg.Telegram.Token, opts...)
	if err != nil {
		return err
	}
	disp = telegram.NewDispatcher(b, 8, handler)
	defer disp.Close()

	sched := scheduler.New(ctx, a.log)
	if a.cfg.Broadcast.Cron != "" {
		_, err := sched.AddJob(a.cfg.Broadcast.Cron, func(ctx context.Context) error {
			_, err := bcast.Send(ctx, a.cfg.Broadcast.Text)
			return err
		}, scheduler.JobOptions{Name: "broadcast", SkipIfRunning: true})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	if a.cfg.Telegram.WebhookURL != "" {
		return a.runWebhook(ctx, b)
	}
	go b.Start(ctx)
	<-ctx.Done()
	return nil
}

// runWebhook registers the webhook and serves it behind gin until shutdown.
func (a *App) runWebhook(ctx context.Context, b *bot.Bot) error {
	_, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         a.cfg.Telegram.WebhookURL,
		SecretToken: a.cfg.Telegram.WebhookSecret,
	})
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/telegram/webhook", gin.WrapH(b.WebhookHandler()))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	srv := &http.Server{Addr: a.cfg.HTTP.Addr, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("server", slog.Any("err", err))
		}
	}()
	go b.StartWebhook(ctx)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore opens the configured subscriber store.
func (a *App) openStore(ctx context.Context) (storage.Subscribers, func(), error) {
	switch a.cfg.Storage.Driver {
	case "postgres":
		store, pool, err := pgstore.Open(ctx, a.cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		a.log.Info("storage ready", slog.String("driver", "postgres"))
		return store, pool.Close, nil
	default:
		store, db, err := sqlitestore.Open(ctx, a.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		a.log.Info("storage ready", slog.String("driver", "sqlite"))
		return store, func() { _ = db.Close() }, nil
	}
}

// redactBotURL hides the bot token embedded in Bot API URL paths.
func redactBotURL(u *url.URL) string {
	path := u.Path
	if i := strings.Index(path, "/bot"); i >= 0 {
		if j := strings.Index(path[i+4:], "/"); j >= 0 {
			path = path[:i] + "/bot[REDACTED]" + path[i+4+j:]
		} else {
			path = path[:i] + "/bot[REDACTED]"
		}
	}
	return u.Scheme + "://" + u.Host + path
}
