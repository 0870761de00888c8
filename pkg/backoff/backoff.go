// Package backoff provides the delay state machine used between retry
// attempts: an exponential sequence with a hard cap, plus a context-aware
// sleep helper.
//
// An Exponential instance is per-call state. It is not safe for concurrent
// use; create one per retry loop.
package backoff

import (
	"context"
	"time"
)

// Exponential produces a doubling delay sequence capped at a maximum.
type Exponential struct {
	initial time.Duration
	max     time.Duration
	next    time.Duration
}

// NewExponential creates a sequence starting at initial and capped at max.
// Non-positive arguments fall back to 1s/1m respectively.
func NewExponential(initial, max time.Duration) *Exponential {
	if initial <= 0 {
		initial = time.Second
	}
	if max <= 0 {
		max = time.Minute
	}
	if initial > max {
		initial = max
	}
	return &Exponential{initial: initial, max: max, next: initial}
}

// Next returns the current delay and advances the sequence (doubled, capped).
func (e *Exponential) Next() time.Duration {
	d := e.next
	doubled := e.next * 2
	if doubled > e.max {
		doubled = e.max
	}
	e.next = doubled
	return d
}

// Peek returns the delay Next would return, without advancing.
func (e *Exponential) Peek() time.Duration { return e.next }

// Reset returns the sequence to its initial delay.
func (e *Exponential) Reset() { e.next = e.initial }

// Sleep waits for d or until ctx is done, whichever comes first.
// It returns ctx.Err() when the wait was interrupted.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
