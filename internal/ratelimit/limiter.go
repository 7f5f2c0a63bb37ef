// Package ratelimit is a fixed-window request limiter backed by Redis.
// Any Redis failure lets the request through.
package ratelimit

import (
	"context"
	"hash/fnv"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/CommunityEconomy_Go/internal/logger"
	"github.com/osse101/CommunityEconomy_Go/internal/metrics"
)

const (
	keyPrefix     = "rl:"
	pingTimeout   = 2 * time.Second
	headerLimit   = "X-RateLimit-Limit"
	headerRemain  = "X-RateLimit-Remaining"
	headerError   = "X-RateLimit-Error"
	headerRetry   = "Retry-After"
	headerAPIKey  = "X-API-Key"
	msgRateLimit  = "rate limit exceeded"
	logMsgRedis   = "Rate limiter redis error, allowing request"
	logMsgBlocked = "Rate limit exceeded"
)

// Counter is the subset of Redis the limiter uses
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type redisCounter struct {
	client *redis.Client
}

func (c redisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

func (c redisCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

// Connect opens a Redis client and pings it. On failure the client is
// closed and the error returned so the caller can run without a limiter.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// KeyFunc picks the identity a request is counted against
type KeyFunc func(r *http.Request) string

// Limiter allows max requests per window per key
type Limiter struct {
	counter Counter
	max     int
	window  time.Duration
	key     KeyFunc
	now     func() time.Time
}

// New wraps a Redis client. A nil client yields a limiter that allows everything.
func New(client *redis.Client, max int, window time.Duration, key KeyFunc) *Limiter {
	var c Counter
	if client != nil {
		c = redisCounter{client: client}
	}
	return NewWithCounter(c, max, window, key)
}

// NewWithCounter builds a limiter on any Counter
func NewWithCounter(c Counter, max int, window time.Duration, key KeyFunc) *Limiter {
	if key == nil {
		key = ByAPIKeyOrIP
	}
	return &Limiter{counter: c, max: max, window: window, key: key, now: time.Now}
}

// Allow counts one request for id and reports whether it is within the
// limit, with the remaining allowance
func (l *Limiter) Allow(ctx context.Context, id string) (bool, int, error) {
	if l.counter == nil || l.max <= 0 {
		return true, l.max, nil
	}
	bucket := l.now().Unix() / int64(l.window.Seconds())
	key := keyPrefix + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + strconv.FormatInt(bucket, 10) + ":" + id

	n, err := l.counter.Incr(ctx, key)
	if err != nil {
		return true, l.max, err
	}
	if n == 1 {
		if err := l.counter.Expire(ctx, key, l.window); err != nil {
			return true, l.max, err
		}
	}
	remaining := l.max - int(n)
	if remaining < 0 {
		remaining = 0
	}
	return n <= int64(l.max), remaining, nil
}

// Middleware returns 429 once a key exceeds its allowance
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, remaining, err := l.Allow(r.Context(), l.key(r))
		if err != nil {
			logger.FromContext(r.Context()).Warn(logMsgRedis, "error", err)
			w.Header().Set(headerError, "redis-error")
			next.ServeHTTP(w, r)
			return
		}
		if l.counter != nil && l.max > 0 {
			w.Header().Set(headerLimit, strconv.Itoa(l.max))
			w.Header().Set(headerRemain, strconv.Itoa(remaining))
		}
		if !ok {
			metrics.RateLimitRejected.Inc()
			logger.FromContext(r.Context()).Warn(logMsgBlocked, "path", r.URL.Path)
			w.Header().Set(headerRetry, strconv.Itoa(int(l.window.Seconds())))
			http.Error(w, msgRateLimit, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ByAPIKeyOrIP counts per API key when one is sent, else per client IP
func ByAPIKeyOrIP(r *http.Request) string {
	if k := r.Header.Get(headerAPIKey); k != "" {
		h := fnv.New32a()
		_, _ = h.Write([]byte(k))
		return "key:" + strconv.FormatUint(uint64(h.Sum32()), 16)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
