package api

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/logger"
	"golang.org/x/time/rate"
)

// RateLimiter throttles submissions per user with a token bucket each.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*limiterEntry
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[int64]*limiterEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(userID int64) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[userID]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[userID] = entry
	}
	entry.lastSeen = rl.now()
	return entry.limiter
}

// Handler rejects requests over the caller's budget with RATE_LIMITED.
// A nil RateLimiter lets everything through.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	if rl == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := userFromContext(r.Context())
		limiter := rl.getLimiter(userID)

		if !limiter.Allow() {
			logger.FromContext(r.Context()).Warn("rate limit exceeded for user %d", userID)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(limiter)))
			handleError(w, r, errors.NewRateLimitedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(l *rate.Limiter) int {
	if l.Limit() <= 0 {
		return 1
	}
	secs := int(1 / float64(l.Limit()))
	if secs < 1 {
		return 1
	}
	return secs
}

// Cleanup drops limiters idle for longer than maxIdle and returns how many it removed.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-maxIdle)
	removed := 0
	for id, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, id)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := rl.Cleanup(interval); n > 0 {
					logger.Debug("dropped %d idle rate limiters", n)
				}
			}
		}
	}()
}
