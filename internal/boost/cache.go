package boost

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

// CachedResolver memoizes an inner Resolver in a size-bounded LRU whose entries expire after ttl.
// When inner is an ExpiringResolver an entry also expires once its earliest
// temporary boost lapses.
type CachedResolver struct {
	inner Resolver
	cache *expirable.LRU[string, cachedSet]
	now   func() time.Time
}

type cachedSet struct {
	set   domain.PerkBoostSet
	until int64
}

// NewCachedResolver wraps inner with an expirable LRU
func NewCachedResolver(inner Resolver, size int, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: expirable.NewLRU[string, cachedSet](size, nil, ttl),
		now:   time.Now,
	}
}

// Resolve serves from the cache, delegating on a miss. Errors are not cached.
func (c *CachedResolver) Resolve(ctx context.Context, userID string) (domain.PerkBoostSet, error) {
	if entry, ok := c.cache.Get(userID); ok {
		if entry.until == 0 || c.now().Unix() < entry.until {
			return clone(entry.set), nil
		}
		c.cache.Remove(userID)
	}

	set, until, err := c.resolveInner(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.cache.Add(userID, cachedSet{set: clone(set), until: until})
	return set, nil
}

func (c *CachedResolver) resolveInner(ctx context.Context, userID string) (domain.PerkBoostSet, int64, error) {
	if er, ok := c.inner.(ExpiringResolver); ok {
		return er.ResolveUntil(ctx, userID)
	}
	set, err := c.inner.Resolve(ctx, userID)
	return set, 0, err
}

// Invalidate evicts one user
func (c *CachedResolver) Invalidate(userID string) {
	c.cache.Remove(userID)
}

// Len returns the number of cached users
func (c *CachedResolver) Len() int {
	return c.cache.Len()
}

func clone(set domain.PerkBoostSet) domain.PerkBoostSet {
	out := make(domain.PerkBoostSet, len(set))
	for k, v := range set {
		out[k] = v
	}
	return out
}
