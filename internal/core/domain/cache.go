package domain

import "fmt"

// CacheStats is a point-in-time view of a bounded cache.
type CacheStats struct {
	Entries int
	Size    int64
	MaxSize int64
	Hits    uint64
	Misses  uint64
}

// String renders the stats on one line.
func (s CacheStats) String() string {
	return fmt.Sprintf("entries=%d size=%d maxSize=%d hits=%d misses=%d",
		s.Entries, s.Size, s.MaxSize, s.Hits, s.Misses)
}
