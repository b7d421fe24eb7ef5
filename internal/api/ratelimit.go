/**
 * @description
 * Distributed per-route rate limiting backed by Redis. A single Lua script
 * increments a fixed-window counter and sets its expiry atomically so counts
 * stay consistent across instances. When Redis is not configured the limiter
 * is a pass-through, keeping local development friction-free.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9: Redis client with Lua script support.
 */

package api

import (
	"context"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RateLimiter implements distributed fixed-window rate limiting using Redis.
type RateLimiter struct {
	client redis.UniversalClient
	prefix string
}

// NewRateLimiter creates a limiter. A nil client yields a pass-through limiter.
func NewRateLimiter(client redis.UniversalClient) *RateLimiter {
	return &RateLimiter{client: client, prefix: "migrent:rate_limit"}
}

// Consume increments the window counter for (scope, subject) and reports the
// count plus the seconds until the window resets.
func (r *RateLimiter) Consume(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error) {
	if r == nil || r.client == nil || limit <= 0 || window <= 0 {
		return 0, 0, nil
	}

	normalizedScope := strings.TrimSpace(scope)
	normalizedSubject := strings.TrimSpace(subject)
	if normalizedScope == "" || normalizedSubject == "" {
		return 0, 0, nil
	}

	windowMs := window.Milliseconds()
	if windowMs < 1000 {
		windowMs = 1000
	}

	key := fmt.Sprintf("%s:%s:%s", r.prefix, normalizedScope, normalizedSubject)
	rawResult, err := rateLimitScript.Run(ctx, r.client, []string{key}, windowMs).Result()
	if err != nil {
		return 0, 0, err
	}

	values, ok := rawResult.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected redis limiter response shape: %T", rawResult)
	}

	currentCount, ok := values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected redis limiter count type: %T", values[0])
	}

	ttlMs, ok := values[1].(int64)
	if !ok {
		return int(currentCount), 0, fmt.Errorf("unexpected redis limiter ttl type: %T", values[1])
	}
	if ttlMs < 0 {
		ttlMs = windowMs
	}

	retryAfter := int(math.Ceil(float64(ttlMs) / 1000.0))
	if retryAfter < 1 {
		retryAfter = 1
	}

	return int(currentCount), retryAfter, nil
}

// RateLimit returns a middleware enforcing `limit` requests per `window` for
// the given scope. The subject is the authenticated user when present,
// otherwise the client IP. Redis failures fail open with a warning.
func RateLimit(limiter *RateLimiter, scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := clientSubject(r)

			count, retryAfter, err := limiter.Consume(r.Context(), scope, subject, limit, window)
			if err != nil {
				log.Printf("level=warn component=ratelimit scope=%s msg=\"limiter unavailable; allowing request\" err=%v", scope, err)
				next.ServeHTTP(w, r)
				return
			}

			if limit > 0 && count > limit {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientSubject(r *http.Request) string {
	if user, ok := GetAuthUser(r.Context()); ok {
		return user.ID
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
