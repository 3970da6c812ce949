package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ContentCache = (*ContentCache)(nil)

// ContentCache maps content keys to built bytes.
// It is bounded by the total byte size of its values and by an entry cap.
// A value larger than the byte ceiling is never stored.
type ContentCache struct {
	entries *lru.Cache[string, []byte]
	size    atomic.Int64
	maxSize int64
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewContentCache creates a content cache holding at most maxBytes bytes in at most maxEntries values.
func NewContentCache(maxBytes int64, maxEntries int) (*ContentCache, error) {
	c := &ContentCache{maxSize: maxBytes}
	entries, err := lru.NewWithEvict(maxEntries, c.evicted)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "failed to create content cache"), "max_entries", maxEntries)
		return nil, zerr.With(err, "max_bytes", maxBytes)
	}
	c.entries = entries
	return c, nil
}

func (c *ContentCache) evicted(_ string, data []byte) {
	c.size.Add(-int64(len(data)))
}

// Get returns the bytes stored under contentKey. The slice must not be modified.
func (c *ContentCache) Get(contentKey string) ([]byte, bool) {
	data, ok := c.entries.Get(contentKey)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return data, ok
}

// Put stores data under contentKey and evicts least recently used values until
// the byte ceiling holds again. Existing keys are left untouched: equal keys
// carry equal content.
func (c *ContentCache) Put(contentKey string, data []byte) {
	n := int64(len(data))
	if n > c.maxSize {
		return
	}
	if present, _ := c.entries.ContainsOrAdd(contentKey, data); present {
		return
	}
	c.size.Add(n)

	for c.size.Load() > c.maxSize {
		if _, _, ok := c.entries.RemoveOldest(); !ok {
			return
		}
	}
}

// Stats returns the current entry count, byte size and hit ratio counters.
func (c *ContentCache) Stats() domain.CacheStats {
	return domain.CacheStats{
		Entries: c.entries.Len(),
		Size:    c.size.Load(),
		MaxSize: c.maxSize,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// String renders the stats.
func (c *ContentCache) String() string {
	return "contentCache " + c.Stats().String()
}
