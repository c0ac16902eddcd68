package web

// import_limiter.go bounds how many CSV imports run at once. Each import
// holds one transaction for its whole duration, so the limit also caps how
// many pool connections imports can pin. Requests that cannot get a slot
// within maxWait fail with core.ErrTooManyImports.

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
)

const (
	defaultMaxConcurrentImports = 5
	defaultImportWait           = 30 * time.Second

	drainPollInterval = 100 * time.Millisecond
)

// importLimiter is a counting semaphore for import requests.
type importLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// newImportLimiter allows maxConcurrent imports at once. Non-positive
// arguments fall back to the defaults.
func newImportLimiter(maxConcurrent int, maxWait time.Duration) *importLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = defaultImportWait
	}
	return &importLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a free slot. The caller must Release it when done.
func (l *importLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return core.ErrTooManyImports
	}
}

// Release returns a slot taken by Acquire.
func (l *importLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// ActiveCount returns the number of imports holding a slot.
func (l *importLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// Available returns the number of free slots.
func (l *importLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no import holds a slot or ctx is done.
func (l *importLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// importLimiterStatus is a point-in-time view of an importLimiter.
type importLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status reports current usage for the health endpoint.
func (l *importLimiter) Status() importLimiterStatus {
	return importLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.slots),
	}
}
