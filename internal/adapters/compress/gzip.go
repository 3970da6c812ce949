// Package compress implements content codings for built assets.
package compress

import (
	"bytes"
	"errors"
	"sync"

	"github.com/klauspost/compress/gzip"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compressor = (*Gzip)(nil)

// Gzip compresses content with gzip. Writers are pooled and reset per call.
type Gzip struct {
	level   int
	writers sync.Pool
}

// NewGzip creates a gzip compressor for the given level.
func NewGzip(level int) (*Gzip, error) {
	// Validate the level once so pooled writers cannot fail later.
	if _, err := gzip.NewWriterLevel(nil, level); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrCompressionFailed, err), "create gzip writer"), "level", level)
	}
	g := &Gzip{level: level}
	g.writers.New = func() any {
		w, _ := gzip.NewWriterLevel(nil, level)
		return w
	}
	return g, nil
}

// Compress returns the gzip encoding of data.
func (g *Gzip) Compress(data []byte) ([]byte, error) {
	w := g.writers.Get().(*gzip.Writer) //nolint:forcetypeassert // Pool only holds writers
	defer g.writers.Put(w)

	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrCompressionFailed, err), "write gzip stream")
	}
	if err := w.Close(); err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrCompressionFailed, err), "close gzip stream")
	}
	return buf.Bytes(), nil
}

// Encoding returns the Content-Encoding token.
func (g *Gzip) Encoding() string {
	return domain.GzipToken
}
