package services

import (
	"sync"
	"time"
)

// resend limits shared by confirmation emails and reset codes
const (
	maxResendsPerWindow = 3
	resendWindow        = 10 * time.Minute
)

// resendThrottle is a per-key sliding window counter. Verification and
// reset emails go through it so a hostile client cannot flood a mailbox.
type resendThrottle struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	sends  map[string][]time.Time
}

func newResendThrottle(max int, window time.Duration) *resendThrottle {
	return &resendThrottle{
		window: window,
		max:    max,
		sends:  map[string][]time.Time{},
	}
}

// Allow records a send for key and reports whether it fit in the window.
func (t *resendThrottle) Allow(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := now.Add(-t.window)
	recent := t.sends[key][:0]
	for _, ts := range t.sends[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	if len(recent) >= t.max {
		t.sends[key] = recent
		return false
	}
	t.sends[key] = append(recent, now)
	return true
}
