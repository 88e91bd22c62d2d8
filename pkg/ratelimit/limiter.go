package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces a per-client sliding-window rate limit with a
// short-window burst ceiling. It is safe for concurrent use.
type Limiter struct {
	requestsPerMinute int
	burstSize         int

	mu      sync.Mutex
	windows map[string][]time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewLimiter creates a limiter allowing requestsPerMinute requests over
// any trailing minute and at most burstSize requests in any trailing
// second, per client.
func NewLimiter(requestsPerMinute, burstSize int) *Limiter {
	return &Limiter{
		requestsPerMinute: requestsPerMinute,
		burstSize:         burstSize,
		windows:           make(map[string][]time.Time),
		now:               time.Now,
	}
}

// Allow reports whether a request from the given client may proceed. The
// request is recorded only when allowed, so rejected requests do not
// extend the client's window.
func (l *Limiter) Allow(clientID string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.windows[clientID]

	// Drop timestamps older than the minute window.
	cutoff := now.Add(-time.Minute)
	pruned := window[:0]
	for _, ts := range window {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= l.requestsPerMinute {
		l.windows[clientID] = pruned
		return false
	}

	// Burst check over the trailing second. Timestamps are appended in
	// order, so counting from the tail suffices.
	burstCutoff := now.Add(-time.Second)
	burst := 0
	for i := len(pruned) - 1; i >= 0; i-- {
		if !pruned[i].After(burstCutoff) {
			break
		}
		burst++
	}
	if burst >= l.burstSize {
		l.windows[clientID] = pruned
		return false
	}

	l.windows[clientID] = append(pruned, now)
	return true
}

// ClientCount returns the number of clients currently tracked.
func (l *Limiter) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// SweepIdle removes windows whose newest entry is older than ttl and
// returns the number of clients removed.
func (l *Limiter) SweepIdle(ttl time.Duration) int {
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for clientID, window := range l.windows {
		if len(window) == 0 || window[len(window)-1].Before(cutoff) {
			delete(l.windows, clientID)
			removed++
		}
	}
	return removed
}
