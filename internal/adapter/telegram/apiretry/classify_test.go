package apiretry

import (
	"errors"
	"fmt"
	"testing"

	"notifybot/internal/adapter/telegram/botapi"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil-ish transport error", errors.New("connection reset"), KindNotRetryable},
		{"wrapped transport error", fmt.Errorf("call sendMessage: %w", errors.New("eof")), KindNotRetryable},
		{"rate limited", rateLimited(5), KindRateLimited},
		{"server error", serverError(), KindServerError},
		{"server error with hint stays server error", &botapi.Error{
			Code:       503,
			Parameters: &botapi.ResponseParameters{RetryAfter: 4},
		}, KindServerError},
		{"bad request", badRequest(), KindOtherAPIError},
		{"forbidden", &botapi.Error{Code: 403, Description: "Forbidden: bot was blocked"}, KindOtherAPIError},
		{"wrapped api error", fmt.Errorf("call sendMessage: %w", rateLimited(2)), KindRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, apiErr := Classify(tt.err)
			if kind != tt.want {
				t.Errorf("Classify() = %v, want %v", kind, tt.want)
			}
			if (apiErr == nil) != (tt.want == KindNotRetryable) {
				t.Errorf("api error presence mismatch for kind %v", kind)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	pairs := map[Kind]string{
		KindNotRetryable:  "NotRetryable",
		KindRateLimited:   "RateLimited",
		KindServerError:   "ServerError",
		KindOtherAPIError: "OtherAPIError",
	}
	for k, want := range pairs {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
