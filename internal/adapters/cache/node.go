package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jasmin/internal/core/ports"
)

// FactoryNodeID is the unique identifier for the cache factory Graft node.
const FactoryNodeID graft.ID = "adapter.cache.factory"

func init() {
	graft.Register(graft.Node[ports.CacheFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CacheFactory, error) {
			return DefaultFactory(), nil
		},
	})
}
