package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/shiva/tripwise/internal/model"
)

// MemoryDistanceCache is a size-bounded, TTL-expiring in-process cache of
// distance resolutions. Safe for concurrent use.
type MemoryDistanceCache struct {
	lru *expirable.LRU[string, model.Resolution]
}

// NewMemoryDistanceCache creates a cache holding at most size entries, each
// for at most ttl. A ttl of zero keeps entries until they are evicted.
func NewMemoryDistanceCache(size int, ttl time.Duration) *MemoryDistanceCache {
	if size <= 0 {
		size = 16
	}
	return &MemoryDistanceCache{lru: expirable.NewLRU[string, model.Resolution](size, nil, ttl)}
}

// Get never fails; the error is always nil.
func (c *MemoryDistanceCache) Get(_ context.Context, key string) (model.Resolution, bool, error) {
	res, ok := c.lru.Get(key)
	return res, ok, nil
}

func (c *MemoryDistanceCache) Set(_ context.Context, key string, res model.Resolution) error {
	c.lru.Add(key, res)
	return nil
}

func (c *MemoryDistanceCache) Name() string { return "memory" }

// Len returns the number of cached entries.
func (c *MemoryDistanceCache) Len() int {
	return c.lru.Len()
}
