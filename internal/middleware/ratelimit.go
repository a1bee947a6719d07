package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// localLimiter is a per-client token bucket used while Redis is unreachable
// or not configured. A bucket idle for a whole window has refilled, so it is
// dropped on the next sweep.
type localLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	clients   map[string]*localClient
	now       func() time.Time
}

type localClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiter(config RateLimitConfig) *localLimiter {
	return &localLimiter{
		limit:     rate.Every(config.Window / time.Duration(config.RequestsPerWindow)),
		burst:     config.RequestsPerWindow,
		idle:      config.Window,
		lastSweep: time.Now(),
		clients:   make(map[string]*localClient),
		now:       time.Now,
	}
}

func (l *localLimiter) allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	client, ok := l.clients[clientID]
	if !ok {
		client = &localClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[clientID] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// sweep drops clients not seen for a whole window. Callers hold mu.
func (l *localLimiter) sweep(now time.Time) {
	for id, client := range l.clients {
		if now.Sub(client.lastSeen) >= l.idle {
			delete(l.clients, id)
		}
	}
	l.lastSweep = now
}

// clientKey identifies the caller by user id when identified, otherwise by
// remote host without the port.
func clientKey(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

// RateLimitMiddleware implements a fixed-window limit shared through Redis.
// With a nil client, or when a Redis call fails, it falls back to an
// in-process token bucket per client.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if config.RequestsPerWindow < 1 {
		config.RequestsPerWindow = 1
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	fallback := newLocalLimiter(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientKey(r)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))

			if redisClient == nil {
				serveLocal(w, r, next, fallback, clientID)
				return
			}

			key := fmt.Sprintf("%s:%s", config.KeyPrefix, clientID)
			count, ttl, err := incrementWindow(r.Context(), redisClient, key, config.Window)
			if err != nil {
				logger.Warn("Redis rate limit unavailable, using local limiter",
					zap.Error(err),
					zap.String("key", key),
				)
				serveLocal(w, r, next, fallback, clientID)
				return
			}

			if count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("client_id", clientID),
					zap.Int64("count", count),
					zap.Int("limit", config.RequestsPerWindow),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))

				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			remaining := config.RequestsPerWindow - int(count)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			next.ServeHTTP(w, r)
		})
	}
}

// incrementWindow counts one request in the current window and returns the
// count with the time left in the window.
func incrementWindow(ctx context.Context, client *redis.Client, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	// Set expiry on first request
	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}

	ttl, err := client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}

func serveLocal(w http.ResponseWriter, r *http.Request, next http.Handler, limiter *localLimiter, clientID string) {
	if !limiter.allow(clientID) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	next.ServeHTTP(w, r)
}
