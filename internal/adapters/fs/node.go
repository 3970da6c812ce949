package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jasmin/internal/core/ports"
)

const (
	// StorageNodeID is the unique identifier for the storage Graft node.
	StorageNodeID graft.ID = "adapter.fs.storage"
	// HasherNodeID is the unique identifier for the hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
	// WalkerNodeID is the unique identifier for the walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
)

func init() {
	graft.Register(graft.Node[ports.Storage]{
		ID:        StorageNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Storage, error) {
			return NewStorage(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})
}
