package apiretry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"notifybot/internal/adapter/telegram/botapi"
	"notifybot/pkg/backoff"
)

const (
	// initialBackoff is the first exponential-backoff wait.
	initialBackoff = 3 * time.Second
	// maxBackoff caps the exponential growth.
	maxBackoff = time.Hour
	// defaultMaxRetryAttempts is used when Config.MaxRetryAttempts is unset.
	defaultMaxRetryAttempts = 3
)

// Config defines interceptor behaviour. The zero value is usable: 3 retries,
// unbounded waits, server errors retried, logging off.
type Config struct {
	// MaxDelay caps a single server-mandated wait. A retry_after above it
	// propagates the error instead of waiting. 0 means no ceiling.
	MaxDelay time.Duration
	// MaxRetryAttempts is the number of retries after the first attempt.
	MaxRetryAttempts int
	// RethrowServerErrors propagates code >= 500 errors instead of backing off.
	RethrowServerErrors bool
	// LoggingEnabled turns on diagnostic log lines for retry decisions.
	LoggingEnabled bool
	// Logger receives diagnostics (defaults to slog.Default).
	Logger *slog.Logger
	// After creates a timer channel (for testing, defaults to time.After).
	After func(d time.Duration) <-chan time.Time
}

func (c *Config) normalize() {
	if c.MaxRetryAttempts <= 0 {
		c.MaxRetryAttempts = defaultMaxRetryAttempts
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.After == nil {
		c.After = time.After
	}
}

// RetryLimitExceededError is surfaced once a call's retry budget is exhausted.
type RetryLimitExceededError struct {
	Method    string
	Attempts  int
	LastError error
}

func (e *RetryLimitExceededError) Error() string {
	return fmt.Sprintf("apiretry: retry limit exceeded calling %s (%d retries): %v",
		e.Method, e.Attempts, e.LastError)
}

func (e *RetryLimitExceededError) Unwrap() error { return e.LastError }

// Interceptor retries failed Bot API calls. The configuration is fixed at
// construction; all per-call state lives inside the wrapped caller, so one
// interceptor serves any number of concurrent calls.
type Interceptor struct {
	cfg Config
}

// New creates an Interceptor with the given configuration.
func New(cfg Config) *Interceptor {
	cfg.normalize()
	return &Interceptor{cfg: cfg}
}

// Wrap produces a caller with the same signature as next that transparently
// retries recoverable failures. Each invocation of the returned caller owns
// independent retry state.
func (i *Interceptor) Wrap(next botapi.Caller) botapi.Caller {
	return func(ctx context.Context, method string, payload any) (json.RawMessage, error) {
		remaining := i.cfg.MaxRetryAttempts
		delay := backoff.NewExponential(initialBackoff, maxBackoff)

		for {
			res, err := next(ctx, method, payload)
			if err == nil {
				return res, nil
			}

			kind, apiErr := Classify(err)
			if kind == KindNotRetryable {
				return nil, err
			}
			if kind == KindServerError && i.cfg.RethrowServerErrors {
				i.logf(ctx, method, "rethrowing server error", slog.Int("code", apiErr.Code))
				return nil, err
			}

			retryAfter := apiErr.RetryAfterDuration()
			switch {
			case retryAfter > 0 && i.cfg.MaxDelay > 0 && retryAfter > i.cfg.MaxDelay:
				i.logf(ctx, method, "retry_after exceeds ceiling, giving up",
					slog.Duration("retry_after", retryAfter),
					slog.Duration("max_delay", i.cfg.MaxDelay))
				return nil, err
			case retryAfter > 0:
				i.logf(ctx, method, "rate limited, waiting",
					slog.Duration("retry_after", retryAfter))
				if err := i.sleep(ctx, retryAfter); err != nil {
					return nil, err
				}
				delay.Reset()
			case kind == KindServerError:
				wait := delay.Next()
				i.logf(ctx, method, "server error, backing off",
					slog.Int("code", apiErr.Code),
					slog.Duration("wait", wait))
				if err := i.sleep(ctx, wait); err != nil {
					return nil, err
				}
			default:
				i.logf(ctx, method, "api error, retrying immediately",
					slog.Int("code", apiErr.Code),
					slog.String("description", apiErr.Description))
			}

			remaining--
			if remaining < 0 {
				i.logf(ctx, method, "retry limit exceeded",
					slog.Int("attempts", i.cfg.MaxRetryAttempts))
				return nil, &RetryLimitExceededError{
					Method:    method,
					Attempts:  i.cfg.MaxRetryAttempts,
					LastError: err,
				}
			}
		}
	}
}

// sleep suspends only the calling goroutine for d.
func (i *Interceptor) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-i.cfg.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *Interceptor) logf(ctx context.Context, method, msg string, attrs ...slog.Attr) {
	if !i.cfg.LoggingEnabled {
		return
	}
	attrs = append([]slog.Attr{slog.String("method", method)}, attrs...)
	i.cfg.Logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}
