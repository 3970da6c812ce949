package cache

import (
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
)

var _ ports.CacheFactory = (*Factory)(nil)

// Factory creates the caches of a freshly loaded engine.
type Factory struct {
	maxEntries int
}

// NewFactory creates a factory whose content caches hold at most maxEntries values.
func NewFactory(maxEntries int) *Factory {
	return &Factory{maxEntries: maxEntries}
}

// NewHashCache creates a hash cache with the given entry count.
func (f *Factory) NewHashCache(entries int) (ports.HashCache, error) {
	return NewHashCache(entries)
}

// NewContentCache creates a content cache with the given byte ceiling.
func (f *Factory) NewContentCache(maxBytes int64) (ports.ContentCache, error) {
	return NewContentCache(maxBytes, f.maxEntries)
}

// DefaultFactory returns a factory with the default entry cap.
func DefaultFactory() *Factory {
	return NewFactory(domain.DefaultContentCacheEntries)
}
