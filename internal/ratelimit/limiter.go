package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out a token bucket per client key. Buckets are dropped
// wholesale every cleanup interval.
type Limiter struct {
	rate            rate.Limit
	burst           int
	cleanupInterval time.Duration

	mu          sync.Mutex
	perClient   map[string]*rate.Limiter
	lastCleanup time.Time
}

// New returns a limiter allowing r requests per second per client with the
// given burst. r <= 0 disables limiting.
func New(r float64, burst int, cleanupInterval time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rate:            rate.Limit(r),
		burst:           burst,
		cleanupInterval: cleanupInterval,
		perClient:       make(map[string]*rate.Limiter),
		lastCleanup:     time.Now(),
	}
}

func (l *Limiter) Allow(client string) bool {
	if l == nil || l.rate <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) >= l.cleanupInterval {
		l.perClient = make(map[string]*rate.Limiter)
		l.lastCleanup = time.Now()
	}

	limiter, ok := l.perClient[client]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.perClient[client] = limiter
	}
	return limiter.Allow()
}
