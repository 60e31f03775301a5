package marketdata

import (
	"sync"
	"time"
)

// CallLimiter caps outbound provider calls to a fixed ceiling per trailing
// window. Each permitted call appends a timestamp; the list is pruned to the
// window on every check.
type CallLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time
}

func NewCallLimiter(limit int, window time.Duration) *CallLimiter {
	return &CallLimiter{
		limit:  limit,
		window: window,
		calls:  make([]time.Time, 0, limit),
	}
}

// Allow reports whether another call fits the window and records it if so.
func (l *CallLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.prune(now)

	if len(l.calls) >= l.limit {
		return false
	}
	l.calls = append(l.calls, now)
	return true
}

// Remaining reports how many calls are still available in the current window.
func (l *CallLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(time.Now())
	return l.limit - len(l.calls)
}

// prune drops timestamps older than the trailing window. Called with mu held.
func (l *CallLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	keep := l.calls[:0]
	for _, t := range l.calls {
		if t.After(cutoff) {
			keep = append(keep, t)
		}
	}
	l.calls = keep
}
