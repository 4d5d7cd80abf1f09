package draftsmith

import (
	"sync"
	"time"
)

// RateLimiter is a per-IP sliding-window limiter. Login uses Check and
// Record so only failed attempts count; generation uses Allow.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewRateLimiter creates a RateLimiter that allows max attempts per window.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	l := &RateLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop ends the background cleanup goroutine.
func (l *RateLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for ip, hits := range l.attempts {
			kept := prune(hits, cutoff)
			if len(kept) == 0 {
				delete(l.attempts, ip)
			} else {
				l.attempts[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow checks if the IP has not exceeded the rate limit and records the attempt.
func (l *RateLimiter) Allow(ip string) bool {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := prune(l.attempts[ip], cutoff)
	if len(kept) >= l.max {
		l.attempts[ip] = kept
		return false
	}
	l.attempts[ip] = append(kept, time.Now())
	return true
}

// Check returns true if the IP has not exceeded the rate limit.
// It does not record an attempt; call Record separately on failure.
func (l *RateLimiter) Check(ip string) bool {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := prune(l.attempts[ip], cutoff)
	l.attempts[ip] = kept
	return len(kept) < l.max
}

// Record registers an attempt for the given IP.
func (l *RateLimiter) Record(ip string) {
	l.mu.Lock()
	l.attempts[ip] = append(l.attempts[ip], time.Now())
	l.mu.Unlock()
}
