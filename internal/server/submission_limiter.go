package server

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	apperrors "github.com/jeyphieee/Sentivents-Backend/internal/errors"
	"github.com/jeyphieee/Sentivents-Backend/internal/metrics"
)

// SubmissionRateLimiter limits the rate of submissions per IP address,
// in front of the abuse guard's per-author state machine. Uses token
// bucket algorithm via golang.org/x/time/rate.
type SubmissionRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rateLimiterEntry
	rate      rate.Limit
	burst     int
	cleanupAt time.Time
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewSubmissionRateLimiter creates a rate limiter with the specified
// submissions per second and burst.
func NewSubmissionRateLimiter(submissionsPerSecond float64, burst int) *SubmissionRateLimiter {
	return &SubmissionRateLimiter{
		limiters:  make(map[string]*rateLimiterEntry),
		rate:      rate.Limit(submissionsPerSecond),
		burst:     burst,
		cleanupAt: time.Now().Add(5 * time.Minute),
	}
}

// Allow checks if a submission from the given IP should be allowed.
// Returns true if allowed (token available), false if rate limited.
func (l *SubmissionRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Periodic cleanup of inactive limiters (every 5 minutes)
	if time.Now().After(l.cleanupAt) {
		l.cleanup()
		l.cleanupAt = time.Now().Add(5 * time.Minute)
	}

	entry, exists := l.limiters[ip]
	if !exists {
		entry = &rateLimiterEntry{
			limiter:  rate.NewLimiter(l.rate, l.burst),
			lastSeen: time.Now(),
		}
		l.limiters[ip] = entry
	}

	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// cleanup removes limiters that haven't been used in 10 minutes.
// Must be called with mu held.
func (l *SubmissionRateLimiter) cleanup() {
	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
}

// ActiveLimiters returns the number of active rate limiters.
func (l *SubmissionRateLimiter) ActiveLimiters() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware rejects requests whose source IP has exhausted its token
// bucket, before the handler runs.
func (l *SubmissionRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				metrics.SubmissionsRejectedByLimiter.Inc()
				return apperrors.RateLimitedError("too many submissions from this address")
			}
			return next(c)
		}
	}
}
