package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiter is a sliding one-minute window limiter. A non-positive rpm
// disables it.
type RateLimiter struct {
	mu                sync.Mutex
	requestsPerMinute int
	lastRequests      []time.Time
	now               func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rpm int) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: rpm,
		lastRequests:      make([]time.Time, 0),
		now:               time.Now,
	}
}

// Wait blocks until a request can be made within rate limits
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil || r.requestsPerMinute <= 0 {
		return nil
	}
	for {
		wait := r.reserve()
		if wait <= 0 {
			return nil
		}

		slog.Info("Rate limit reached, waiting...",
			"waitSeconds", wait.Seconds(),
			"rpm", r.requestsPerMinute,
		)

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// reserve records a request and returns zero when the window has room,
// otherwise the time until the oldest request leaves the window.
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	windowStart := now.Add(-time.Minute)

	// Remove old requests outside the window
	valid := r.lastRequests[:0]
	for _, t := range r.lastRequests {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	r.lastRequests = valid

	if len(r.lastRequests) >= r.requestsPerMinute {
		return r.lastRequests[0].Add(time.Minute).Sub(now)
	}

	r.lastRequests = append(r.lastRequests, now)
	return 0
}
