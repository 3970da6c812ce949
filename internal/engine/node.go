package engine

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/jasmin/internal/adapters/cache"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jasmin/internal/adapters/compress"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jasmin/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jasmin/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jasmin/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jasmin/internal/core/ports"
)

// NodeID is the unique identifier for the engine dependencies Graft node.
const NodeID graft.ID = "engine.deps"

func init() {
	graft.Register(graft.Node[Deps]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.StorageNodeID,
			fs.HasherNodeID,
			compress.CompressorNodeID,
			cache.FactoryNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (Deps, error) {
			storage, err := graft.Dep[ports.Storage](ctx)
			if err != nil {
				return Deps{}, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return Deps{}, err
			}

			compressor, err := graft.Dep[ports.Compressor](ctx)
			if err != nil {
				return Deps{}, err
			}

			caches, err := graft.Dep[ports.CacheFactory](ctx)
			if err != nil {
				return Deps{}, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return Deps{}, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return Deps{}, err
			}

			return Deps{
				Storage:    storage,
				Hasher:     hasher,
				Compressor: compressor,
				Caches:     caches,
				Tracer:     tracer,
				Logger:     log,
				Clock:      clockwork.NewRealClock(),
			}, nil
		},
	})
}
