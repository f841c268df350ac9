// Package tiercache keeps the active tier list in process memory.
//
// The tier catalog changes only through admin edits and seeding, while every
// pricing request reads it, so the list is served from a patrickmn/go-cache
// entry and reloaded from the wrapped lister when the entry expires.
package tiercache

import (
	"context"
	"time"

	"pricing/internal/core/domain/model/tier"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is used when New is given a non-positive ttl.
const DefaultTTL = time.Minute

const activeTiersKey = "tiers:active"

// Lister is the read side of ports.TierRepository.
type Lister interface {
	ListActive(ctx context.Context) ([]*tier.Tier, error)
}

// Cache wraps a Lister. Errors are never cached.
type Cache struct {
	next  Lister
	items *gocache.Cache
}

// New creates a cache in front of next.
func New(next Lister, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		next:  next,
		items: gocache.New(ttl, 2*ttl),
	}
}

// ListActive returns the cached active tiers, loading them on a miss.
// The returned slice is a copy; tiers themselves are immutable.
func (c *Cache) ListActive(ctx context.Context) ([]*tier.Tier, error) {
	if v, ok := c.items.Get(activeTiersKey); ok {
		tiers, _ := v.([]*tier.Tier)
		return append([]*tier.Tier(nil), tiers...), nil
	}

	tiers, err := c.next.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	c.items.SetDefault(activeTiersKey, tiers)
	return append([]*tier.Tier(nil), tiers...), nil
}

// Invalidate drops the cached list so the next read goes to the store.
func (c *Cache) Invalidate() {
	c.items.Delete(activeTiersKey)
}
