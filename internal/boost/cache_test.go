package boost

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

type countingResolver struct {
	calls atomic.Int32
	value float64
}

func (c *countingResolver) Resolve(ctx context.Context, userID string) (domain.PerkBoostSet, error) {
	c.calls.Add(1)
	set := domain.NewPerkBoostSet()
	set[domain.BoostXP] = c.value
	return set, nil
}

func TestCachedResolver_HitsAndInvalidation(t *testing.T) {
	inner := &countingResolver{value: 1.5}
	cached := NewCachedResolver(inner, 10, time.Minute)
	ctx := context.Background()

	first, err := cached.Resolve(ctx, "u1")
	require.NoError(t, err)
	second, err := cached.Resolve(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.calls.Load(), "second lookup is a cache hit")
	assert.Equal(t, first, second)

	inner.value = 2.0
	cached.Invalidate("u1")
	third, err := cached.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, third.Get(domain.BoostXP), 0.0001)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedResolver_CallerMutationDoesNotLeak(t *testing.T) {
	cached := NewCachedResolver(&countingResolver{value: 1.5}, 10, time.Minute)
	ctx := context.Background()

	set, err := cached.Resolve(ctx, "u1")
	require.NoError(t, err)
	set[domain.BoostXP] = 99

	again, err := cached.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, again.Get(domain.BoostXP), 0.0001)
}

func TestCachedResolver_Expiry(t *testing.T) {
	inner := &countingResolver{value: 1.0}
	cached := NewCachedResolver(inner, 10, 20*time.Millisecond)
	ctx := context.Background()

	_, _ = cached.Resolve(ctx, "u1")
	time.Sleep(60 * time.Millisecond)
	_, _ = cached.Resolve(ctx, "u1")

	assert.Equal(t, int32(2), inner.calls.Load())
}

type expiringResolver struct {
	countingResolver
	until int64
}

func (e *expiringResolver) ResolveUntil(ctx context.Context, userID string) (domain.PerkBoostSet, int64, error) {
	set, err := e.Resolve(ctx, userID)
	return set, e.until, err
}

func TestCachedResolver_DropsSetWhenBoostLapses(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	inner := &expiringResolver{countingResolver: countingResolver{value: 2.0}, until: now.Add(30 * time.Second).Unix()}
	cached := NewCachedResolver(inner, 10, time.Hour)
	cached.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := cached.Resolve(ctx, "u1")
	require.NoError(t, err)
	_, err = cached.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.calls.Load(), "still inside the boost window")

	now = now.Add(31 * time.Second)
	inner.value = 1.0
	inner.until = 0
	set, err := cached.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.InDelta(t, 1.0, set.Get(domain.BoostXP), 0.0001)
}

func TestCachedResolver_SizeBound(t *testing.T) {
	cached := NewCachedResolver(&countingResolver{value: 1.0}, 2, time.Minute)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, _ = cached.Resolve(ctx, id)
	}
	assert.Equal(t, 2, cached.Len())
}
