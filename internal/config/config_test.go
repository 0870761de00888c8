package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("LOG_FILE", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "prod", c.Env)
	require.Equal(t, 3, c.Retry.MaxAttempts)
	require.Zero(t, c.Retry.MaxDelay)
	require.False(t, c.Retry.RethrowServerErrors)
	require.Equal(t, "sqlite", c.Storage.Driver)
	require.Equal(t, 50*time.Millisecond, c.Broadcast.Pace)
}

func TestLoadRetrySettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_MAX_DELAY", "30s")
	t.Setenv("RETRY_RETHROW_SERVER_ERRORS", "true")
	t.Setenv("RETRY_LOG", "1")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, c.Retry.MaxAttempts)
	require.Equal(t, 30*time.Second, c.Retry.MaxDelay)
	require.True(t, c.Retry.RethrowServerErrors)
	require.True(t, c.Retry.Logging)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadInvalidRetryAttempts(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RETRY_MAX_ATTEMPTS", "zero")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/notifybot?sslmode=disable")
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres", c.Storage.Driver)
}

func TestLoadBroadcastCronRequiresText(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BROADCAST_CRON", "0 9 * * *")
	t.Setenv("BROADCAST_TEXT", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("BROADCAST_TEXT", "доброе утро")
	_, err = Load()
	require.NoError(t, err)
}

func TestLoadWebhookRequiresSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TELEGRAM_WEBHOOK_URL", "https://bot.example.com/telegram/webhook")
	t.Setenv("TELEGRAM_WEBHOOK_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
