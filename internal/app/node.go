package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jasmin/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/jasmin/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/jasmin/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/jasmin/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/jasmin/internal/engine"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			engine.NodeID,
			watcher.NodeID,
			fs.WalkerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	deps, err := graft.Dep[engine.Deps](ctx)
	if err != nil {
		return nil, err
	}

	newWatcher, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, deps, newWatcher, walker, log), nil
}
