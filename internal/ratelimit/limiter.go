// Package ratelimit provides per-client fixed-window admission control.
//
// DESIGN: One counter per identifier, reset when its window elapses. This is
// a fixed-window (not true sliding-window) scheme: a burst straddling a
// window boundary can admit up to 2x MaxRequests. That approximation is
// accepted for an in-process, best-effort abuse guard; state is deliberately
// not persisted and resets on restart.
package ratelimit

import (
	"sync"
	"time"
)

// Result reports the outcome of an admission check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the whole seconds a rejected caller should wait,
// rounded up, never below 1.
func (r Result) RetryAfter(now time.Time) int {
	d := r.ResetAt.Sub(now)
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a mutex-protected fixed-window counter keyed by client
// identifier. Construct one per process and inject it into the handler so
// tests can build isolated instances.
type Limiter struct {
	maxRequests int
	window      time.Duration

	mu      sync.Mutex
	entries map[string]entry

	// now is swappable for tests.
	now func() time.Time
}

// New creates a limiter admitting maxRequests per window per identifier.
func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		entries:     make(map[string]entry),
		now:         time.Now,
	}
}

// Check records one request attempt for identifier and reports whether it is
// admitted. Expired entries are replaced lazily; there is no background
// cleanup because the identifier set is bounded by clients seen during the
// process lifetime.
func (l *Limiter) Check(identifier string) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok || !now.Before(e.resetAt) {
		e = entry{count: 1, resetAt: now.Add(l.window)}
		l.entries[identifier] = e
		return Result{Allowed: true, Remaining: l.maxRequests - 1, ResetAt: e.resetAt}
	}

	if e.count >= l.maxRequests {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.resetAt}
	}

	e.count++
	l.entries[identifier] = e
	return Result{Allowed: true, Remaining: l.maxRequests - e.count, ResetAt: e.resetAt}
}

// SetNow overrides the limiter's clock. Test hook.
func (l *Limiter) SetNow(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}
