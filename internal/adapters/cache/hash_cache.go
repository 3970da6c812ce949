// Package cache implements the bounded in-memory caches of the resolution engine.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.HashCache = (*HashCache)(nil)

// HashCache maps resolution identities to content keys, bounded by entry count.
type HashCache struct {
	entries *lru.Cache[string, string]
	size    int
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewHashCache creates a hash cache holding at most size identities.
func NewHashCache(size int) (*HashCache, error) {
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create hash cache"), "size", size)
	}
	return &HashCache{entries: entries, size: size}, nil
}

// Get returns the content key stored for identity.
func (c *HashCache) Get(identity string) (string, bool) {
	key, ok := c.entries.Get(identity)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return key, ok
}

// Put stores the content key for identity, evicting the least recently used entry if full.
func (c *HashCache) Put(identity, contentKey string) {
	c.entries.Add(identity, contentKey)
}

// Stats returns the current entry count and hit ratio counters.
func (c *HashCache) Stats() domain.CacheStats {
	n := c.entries.Len()
	return domain.CacheStats{
		Entries: n,
		Size:    int64(n),
		MaxSize: int64(c.size),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// String renders the stats.
func (c *HashCache) String() string {
	return "hashCache " + c.Stats().String()
}
