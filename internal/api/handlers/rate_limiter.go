package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/providers"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/observability"
)

// RateLimiter counts requests per key in fixed windows. Counters live in the
// cache when one is configured so that every API instance shares them;
// otherwise, or when the cache fails, they are kept in process.
type RateLimiter struct {
	cache  providers.CacheProvider
	local  *localRateLimiter
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window. cache may be nil.
func NewRateLimiter(cache providers.CacheProvider, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Hour
	}
	return &RateLimiter{
		cache:  cache,
		local:  newLocalRateLimiter(),
		limit:  limit,
		window: window,
	}
}

// Allow records one request for key and reports whether it is within the
// limit. When it is not, the second value is how long until the window resets.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l.cache == nil {
		return l.local.allow(key, l.limit, l.window)
	}

	count, err := l.cache.Increment(ctx, key, l.window)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("rate limit cache unavailable, using local counter")
		return l.local.allow(key, l.limit, l.window)
	}
	if count <= int64(l.limit) {
		return true, 0
	}

	retryAfter, err := l.cache.TTL(ctx, key)
	if err != nil || retryAfter <= 0 {
		retryAfter = l.window
	}
	return false, retryAfter
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictExpired(now)

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := state.resetAt.Sub(now)
		if retryAfter <= 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, 0
}

// evictExpired drops finished windows once the map grows; callers hold mu
func (l *localRateLimiter) evictExpired(now time.Time) {
	if len(l.states) < 10000 {
		return
	}
	for key, state := range l.states {
		if now.After(state.resetAt) {
			delete(l.states, key)
		}
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
