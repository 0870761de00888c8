// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	Env      string `validate:"required,oneof=dev prod"`
	Telegram struct {
		Token         string `validate:"required"`
		WebhookURL    string
		WebhookSecret string
	}
	HTTP struct {
		Addr string `validate:"required"`
	}
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
	Retry struct {
		MaxAttempts         int `validate:"min=1"`
		MaxDelay            time.Duration
		RethrowServerErrors bool
		Logging             bool
	}
	Storage struct {
		Driver      string `validate:"required,oneof=sqlite postgres"`
		SQLitePath  string
		PostgresDSN string
	}
	Broadcast struct {
		Cron string
		Text string
		Pace time.Duration
	}
	AdminIDs string
}

var validate = validator.New()

// Load reads configuration from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	c.Env = getenv("ENV", "prod")
	c.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	c.Telegram.WebhookURL = os.Getenv("TELEGRAM_WEBHOOK_URL")
	c.Telegram.WebhookSecret = os.Getenv("TELEGRAM_WEBHOOK_SECRET")
	c.HTTP.Addr = getenv("HTTP_ADDR", ":8080")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = getenv("LOG_FILE", "data/logs/bot.log")

	var err error
	if c.Retry.MaxAttempts, err = getenvInt("RETRY_MAX_ATTEMPTS", 3); err != nil {
		return Config{}, err
	}
	if c.Retry.MaxDelay, err = getenvDuration("RETRY_MAX_DELAY", 0); err != nil {
		return Config{}, err
	}
	c.Retry.RethrowServerErrors = getenvBool("RETRY_RETHROW_SERVER_ERRORS", false)
	c.Retry.Logging = getenvBool("RETRY_LOG", false)

	c.Storage.Driver = strings.ToLower(getenv("STORAGE_DRIVER", "sqlite"))
	c.Storage.SQLitePath = getenv("SQLITE_PATH", "data/bot.db")
	c.Storage.PostgresDSN = os.Getenv("POSTGRES_DSN")

	c.Broadcast.Cron = os.Getenv("BROADCAST_CRON")
	c.Broadcast.Text = os.Getenv("BROADCAST_TEXT")
	if c.Broadcast.Pace, err = getenvDuration("BROADCAST_PACE", 50*time.Millisecond); err != nil {
		return Config{}, err
	}
	c.AdminIDs = os.Getenv("ADMIN_IDS")

	if err := validate.Struct(c); err != nil {
		return Config{}, err
	}
	if c.Telegram.WebhookURL != "" && c.Telegram.WebhookSecret == "" {
		return Config{}, errors.New("TELEGRAM_WEBHOOK_SECRET required when TELEGRAM_WEBHOOK_URL is set")
	}
	if c.Storage.Driver == "postgres" && c.Storage.PostgresDSN == "" {
		return Config{}, errors.New("POSTGRES_DSN required when STORAGE_DRIVER=postgres")
	}
	if c.Broadcast.Cron != "" && c.Broadcast.Text == "" {
		return Config{}, errors.New("BROADCAST_TEXT required when BROADCAST_CRON is set")
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getenvDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
