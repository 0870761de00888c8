package botapi

import (
	"fmt"
	"testing"
	"time"
)

func TestErrorString(t *testing.T) {
	err := &Error{Code: 429, Description: "Too Many Requests: retry after 5"}
	want := "telegram: 429 Too Many Requests: retry after 5"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsServerError(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{400, false},
		{429, false},
		{499, false},
		{500, true},
		{502, true},
	}
	for _, tt := range tests {
		err := &Error{Code: tt.code}
		if got := err.IsServerError(); got != tt.want {
			t.Errorf("code %d: IsServerError() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestRetryAfterDuration(t *testing.T) {
	if d := (&Error{Code: 429}).RetryAfterDuration(); d != 0 {
		t.Errorf("no parameters: got %v, want 0", d)
	}
	if d := (&Error{Code: 429, Parameters: &ResponseParameters{}}).RetryAfterDuration(); d != 0 {
		t.Errorf("no retry_after: got %v, want 0", d)
	}
	err := &Error{Code: 429, Parameters: &ResponseParameters{RetryAfter: 14}}
	if d := err.RetryAfterDuration(); d != 14*time.Second {
		t.Errorf("got %v, want 14s", d)
	}
}

func TestAsError(t *testing.T) {
	apiErr := &Error{Code: 400, Description: "Bad Request"}
	wrapped := fmt.Errorf("call sendMessage: %w", apiErr)

	got, ok := AsError(wrapped)
	if !ok || got != apiErr {
		t.Fatalf("AsError(wrapped) = %v, %v", got, ok)
	}
	if _, ok := AsError(fmt.Errorf("plain")); ok {
		t.Error("AsError matched a non-API error")
	}
}
