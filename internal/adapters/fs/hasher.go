package fs

import (
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes resolution identities and content keys.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Identity hashes the chosen location of every file in order, followed by the
// request attributes that select or transform content.
func (h *Hasher) Identity(files []domain.File, req domain.Request) string {
	hasher := xxhash.New()

	for _, f := range files {
		_, _ = hasher.WriteString(f.Location(req.Minimize))
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	_, _ = hasher.WriteString(string(req.Type))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(req.Variant)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write([]byte{flag(req.Minimize), flag(req.Gzip)})

	return fmt.Sprintf("%016x", hasher.Sum64())
}

// ContentKey returns the hex-encoded BLAKE3 digest of data.
func (h *Hasher) ContentKey(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
