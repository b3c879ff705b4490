package core

// fetch_limiter.go bounds the number of concurrent reads against the row
// source. Each dashboard request re-reads the whole worksheet, so a burst of
// requests would otherwise fan out into a burst of Sheets API calls and
// exhaust the per-project quota.
//
// Requests wait up to maxWait for a slot before failing with
// ErrTooManyFetches. WaitForDrain lets shutdown finish in-flight reads.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyFetches is returned when every fetch slot stays busy for longer
// than the wait limit.
var ErrTooManyFetches = errors.New("too many concurrent spreadsheet reads")

// Defaults applied when the limiter is built with non-positive settings.
const (
	DefaultMaxConcurrentFetches = 4
	DefaultFetchWait            = 10 * time.Second
)

// FetchLimiter is a counting semaphore over source reads.
type FetchLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewFetchLimiter allows at most maxConcurrent simultaneous fetches.
func NewFetchLimiter(maxConcurrent int, maxWait time.Duration) *FetchLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentFetches
	}
	if maxWait <= 0 {
		maxWait = DefaultFetchWait
	}
	return &FetchLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait. The caller must Release
// the slot once the fetch returns.
func (l *FetchLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-timer.C:
		return ErrTooManyFetches
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *FetchLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// FetchLimiterStatus is a snapshot of the limiter for health checks.
type FetchLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *FetchLimiter) Status() FetchLimiterStatus {
	return FetchLimiterStatus{
		Active:        int(l.active.Load()),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}

// WaitForDrain blocks until no fetch is in flight or ctx is done.
func (l *FetchLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.active.Load() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
