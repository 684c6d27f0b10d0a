package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter hands out one token bucket per key (client IP or user id).
// Buckets untouched for a while are dropped by EvictIdle.
type KeyedRateLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	r        rate.Limit
	b        int
	now      func() time.Time
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*limiterEntry),
		r:        r,
		b:        b,
		now:      time.Now,
	}
}

func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	entry, exists := k.limiters[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(k.r, k.b)}
		k.limiters[key] = entry
	}
	entry.lastSeen = k.now()

	return entry.limiter
}

// EvictIdle removes buckets not used within maxIdle and returns how many were dropped.
// maxIdle should be at least the time a bucket needs to refill, otherwise an
// evicted client gets a fresh burst early.
func (k *KeyedRateLimiter) EvictIdle(maxIdle time.Duration) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := k.now().Add(-maxIdle)
	evicted := 0
	for key, entry := range k.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(k.limiters, key)
			evicted++
		}
	}
	return evicted
}

// Len reports how many keys currently hold a bucket.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

// RateLimitByIP limits unauthenticated endpoints such as login and register.
func RateLimitByIP(limiter *KeyedRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.GetLimiter(clientIP(req)).Allow() {
				response.TooManyRequests(w, "Too many requests from this IP")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// RateLimitByUser must run after AuthRequired; requests without an actor pass through.
func RateLimitByUser(limiter *KeyedRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			actor, ok := ActorFromContext(req.Context())
			if !ok {
				next.ServeHTTP(w, req)
				return
			}
			if !limiter.GetLimiter(actor.ID).Allow() {
				response.TooManyRequests(w, "Too many requests from this user")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
