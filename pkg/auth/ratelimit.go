package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter checks whether a request from identity may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, identity *Identity) error
}

// maxIdleLimiters bounds the limiter map before idle entries are pruned.
const maxIdleLimiters = 4096

// SubjectLimiter is a token bucket per subject. Each subject may issue
// RequestsPerMinute requests per minute with a burst of the same size.
type SubjectLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

// NewSubjectLimiter creates a limiter allowing rpm requests per minute per
// subject. rpm <= 0 disables limiting.
func NewSubjectLimiter(rpm int) *SubjectLimiter {
	return &SubjectLimiter{
		limit:    rate.Limit(float64(rpm) / 60.0),
		burst:    rpm,
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Allow takes one token from the subject's bucket. It returns
// ErrTooManyRequests when the bucket is empty.
func (l *SubjectLimiter) Allow(_ context.Context, identity *Identity) error {
	if l.burst <= 0 {
		return nil
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[identity.Subject]
	if !ok {
		if len(l.limiters) >= maxIdleLimiters {
			l.prune(now)
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[identity.Subject] = lim
	}

	if !lim.AllowN(now, 1) {
		return ErrTooManyRequests
	}
	return nil
}

// Forget drops the bucket for subject, e.g. when its session ends.
func (l *SubjectLimiter) Forget(subject string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.limiters, subject)
}

// prune removes buckets that have refilled completely. A full bucket
// behaves exactly like a new one. Caller must hold l.mu.
func (l *SubjectLimiter) prune(now time.Time) {
	for subject, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, subject)
		}
	}
}
