package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWrap(t *testing.T) {
	base := errors.New("boom")

	if got := Wrap(nil, "ctx"); got != nil {
		t.Errorf("Wrap(nil) = %v, want nil", got)
	}
	if got := Wrap(base, ""); got != base {
		t.Errorf("Wrap with empty context = %v, want original", got)
	}

	wrapped := Wrap(base, "doing thing")
	if wrapped.Error() != "doing thing: boom" {
		t.Errorf("Wrap() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error lost its cause")
	}
}

func TestWrapf(t *testing.T) {
	base := errors.New("boom")
	wrapped := Wrapf(base, "subscriber %d", 42)
	if wrapped.Error() != "subscriber 42: boom" {
		t.Errorf("Wrapf() = %q", wrapped.Error())
	}
	if Wrapf(nil, "x") != nil {
		t.Error("Wrapf(nil) should be nil")
	}
}

func TestIsCanceled(t *testing.T) {
	if IsCanceled(nil) {
		t.Error("IsCanceled(nil)")
	}
	if !IsCanceled(fmt.Errorf("op: %w", context.Canceled)) {
		t.Error("wrapped context.Canceled not detected")
	}
	if IsCanceled(context.DeadlineExceeded) {
		t.Error("deadline exceeded misreported as canceled")
	}
}

func TestIsTimeout(t *testing.T) {
	if IsTimeout(nil) {
		t.Error("IsTimeout(nil)")
	}
	if !IsTimeout(context.DeadlineExceeded) {
		t.Error("deadline exceeded not detected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	if !IsTimeout(ctx.Err()) {
		t.Error("expired context error not detected")
	}
}
