// Package ratelimit provides client-side pacing for chat endpoint
// requests. Endpoints here do not advertise rate limit headers, so the
// limiter is a plain token bucket tracked per endpoint URL.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limit settings.
type Config struct {
	// RequestsPerMinute is the sustained request rate per endpoint.
	RequestsPerMinute int

	// Burst is the bucket capacity. Defaults to RequestsPerMinute when
	// zero.
	Burst int
}

// Limiter tracks per-endpoint token buckets. It wraps
// golang.org/x/time/rate.Limiter with per-key tracking.
type Limiter struct {
	config   Config
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLimiter creates a Limiter with the given config.
func NewLimiter(config Config) *Limiter {
	if config.Burst == 0 {
		config.Burst = config.RequestsPerMinute
	}
	return &Limiter{
		config:   config,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether a request to endpoint may be sent now, consuming
// a token when it may.
func (l *Limiter) Allow(endpoint string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[endpoint]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.config.RequestsPerMinute)), l.config.Burst)
		l.limiters[endpoint] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// Reset removes all tracked endpoints.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters = make(map[string]*rate.Limiter)
}
