package http

import (
	"golang.org/x/time/rate"
	"net"
	"net/http"
	"sync"
	"time"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client
type RateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter allows each client requestsPerSecond with bursts of up to burst
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether the client identified by key may make a request now
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, exists := rl.limiters[key]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now

	return cl.limiter.AllowN(now, 1)
}

// Cleanup forgets clients idle for longer than maxIdle
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-maxIdle)
	for key, cl := range rl.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// clientKey identifies the caller by remote IP
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
