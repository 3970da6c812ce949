package main

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jasmin/internal/adapters/cache"
	"go.trai.ch/jasmin/internal/adapters/compress"
	"go.trai.ch/jasmin/internal/adapters/fs"
	"go.trai.ch/jasmin/internal/adapters/telemetry"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/jasmin/internal/engine"
)

func engineDeps(t *testing.T, log ports.Logger) engine.Deps {
	t.Helper()

	compressor, err := compress.NewGzip(gzip.BestSpeed)
	require.NoError(t, err)

	return engine.Deps{
		Storage:    fs.NewStorage(),
		Hasher:     fs.NewHasher(),
		Compressor: compressor,
		Caches:     cache.DefaultFactory(),
		Tracer:     telemetry.NewNoOpTracer(),
		Logger:     log,
		Clock:      clockwork.NewRealClock(),
	}
}
