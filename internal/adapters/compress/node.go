package compress

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/klauspost/compress/gzip"
	"go.trai.ch/jasmin/internal/core/ports"
)

// CompressorNodeID is the unique identifier for the compressor Graft node.
const CompressorNodeID graft.ID = "adapter.compress.gzip"

func init() {
	graft.Register(graft.Node[ports.Compressor]{
		ID:        CompressorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Compressor, error) {
			return NewGzip(gzip.BestCompression)
		},
	})
}
