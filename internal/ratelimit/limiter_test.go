package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	mu      sync.Mutex
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

var _ Counter = (*memCounter)(nil)

func newMemCounter() *memCounter {
	return &memCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (m *memCounter) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memCounter) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires[key] = ttl
	return nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestLimiter_BlocksAfterMax(t *testing.T) {
	counter := newMemCounter()
	l := NewWithCounter(counter, 2, time.Minute, nil)
	l.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	h := l.Middleware(okHandler())

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/investments/catalog", nil)
		req.Header.Set("X-API-Key", "bot-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code
		if i == 2 {
			assert.Equal(t, "60", rec.Header().Get("Retry-After"))
			assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		}
	}

	assert.Equal(t, []int{200, 200, 429}, codes)
	require.Len(t, counter.expires, 1)
	for key, ttl := range counter.expires {
		assert.Equal(t, time.Minute, ttl)
		assert.NotContains(t, key, "bot-key")
	}
}

func TestLimiter_NewWindowResets(t *testing.T) {
	l := NewWithCounter(newMemCounter(), 1, time.Minute, nil)
	at := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return at }
	ctx := context.Background()

	ok, _, err := l.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _, _ = l.Allow(ctx, "ip:1.2.3.4")
	assert.False(t, ok)

	at = at.Add(time.Minute)
	ok, remaining, _ := l.Allow(ctx, "ip:1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)
}

func TestLimiter_FailsOpen(t *testing.T) {
	t.Run("redis error", func(t *testing.T) {
		counter := newMemCounter()
		counter.err = errors.New("connection refused")
		rec := httptest.NewRecorder()

		NewWithCounter(counter, 1, time.Minute, nil).Middleware(okHandler()).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "redis-error", rec.Header().Get("X-RateLimit-Error"))
	})

	t.Run("no client", func(t *testing.T) {
		h := New(nil, 1, time.Minute, nil).Middleware(okHandler())
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestByAPIKeyOrIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "ip:10.0.0.7", ByAPIKeyOrIP(req))

	req.Header.Set("X-API-Key", "secret")
	key := ByAPIKeyOrIP(req)
	assert.Contains(t, key, "key:")
	assert.NotContains(t, key, "secret")
}
