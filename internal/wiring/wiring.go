// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/jasmin/internal/adapters/cache"
	_ "go.trai.ch/jasmin/internal/adapters/compress"
	_ "go.trai.ch/jasmin/internal/adapters/config"
	_ "go.trai.ch/jasmin/internal/adapters/fs"
	_ "go.trai.ch/jasmin/internal/adapters/logger"
	_ "go.trai.ch/jasmin/internal/adapters/telemetry"
	_ "go.trai.ch/jasmin/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/jasmin/internal/app"
	_ "go.trai.ch/jasmin/internal/engine"
)
