package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	h "campuseventhub/internal/delivery/http/helpers"
)

// RateLimitConfig configures the per-key token buckets.
type RateLimitConfig struct {
	RPS     float64       // steady-state refill rate
	Burst   int           // bucket capacity
	IdleTTL time.Duration // idle keys are evicted after this long
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one in-memory token bucket per key (authenticated caller
// ID, or client IP before auth).
type RateLimiter struct {
	conf    RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*keyLimiter
}

// NewRateLimiter builds a RateLimiter and starts a background sweep that
// evicts idle keys.
func NewRateLimiter(conf RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		conf:    conf,
		buckets: make(map[string]*keyLimiter),
	}

	go func() {
		interval := conf.IdleTTL / 2
		if interval <= 0 {
			interval = time.Minute
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			rl.mu.Lock()
			for k, v := range rl.buckets {
				if now.Sub(v.lastSeen) > rl.conf.IdleTTL {
					delete(rl.buckets, k)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}

	lim := rate.NewLimiter(rate.Limit(rl.conf.RPS), rl.conf.Burst)
	rl.buckets[key] = &keyLimiter{limiter: lim, lastSeen: now}
	return lim
}

// limitKey prefers the authenticated caller's ID; unauthenticated requests
// fall back to the client IP.
func limitKey(r *http.Request) string {
	if caller, ok := CallerFromContext(r.Context()); ok {
		return caller.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware responds 429 with a Retry-After hint when the key's bucket is
// empty.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(rl.LimitFunc(next.ServeHTTP))
}

// LimitFunc is the per-route form of Middleware. Applied after RequireAuth so
// the bucket key is the caller ID rather than the client IP.
func (rl *RateLimiter) LimitFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.getLimiter(limitKey(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			h.WriteJSONError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
			return
		}
		next(w, r)
	}
}
