package ports

import "go.trai.ch/jasmin/internal/core/domain"

// HashCache maps resolution identities to content keys.
// Implementations must be safe for concurrent use.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type HashCache interface {
	Get(identity string) (string, bool)
	Put(identity, contentKey string)
	Stats() domain.CacheStats
}

// ContentCache maps content keys to built bytes.
// Implementations must be safe for concurrent use.
type ContentCache interface {
	Get(contentKey string) ([]byte, bool)
	Put(contentKey string, data []byte)
	Stats() domain.CacheStats
}

// CacheFactory creates the caches of a freshly loaded engine.
type CacheFactory interface {
	NewHashCache(entries int) (HashCache, error)
	NewContentCache(maxBytes int64) (ContentCache, error)
}
