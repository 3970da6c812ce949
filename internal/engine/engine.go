// Package engine resolves requests into built content and keeps the loaded
// repository consistent with its config file.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/zerr"
)

// Deps are the adapters an Engine is built from.
type Deps struct {
	Storage    ports.Storage
	Hasher     ports.Hasher
	Compressor ports.Compressor
	Caches     ports.CacheFactory
	Tracer     ports.Tracer
	Logger     ports.Logger
	Clock      clockwork.Clock
}

// Engine answers requests against one loaded application.
// It is never mutated after construction apart from its caches.
type Engine struct {
	app      *domain.Application
	deps     Deps
	hashes   ports.HashCache
	contents ports.ContentCache
	loadedAt time.Time
}

// New creates an Engine with fresh caches sized by the application settings.
func New(app *domain.Application, deps Deps, loadedAt time.Time) (*Engine, error) {
	hashes, err := deps.Caches.NewHashCache(app.Settings.HashCacheSize)
	if err != nil {
		return nil, err
	}
	contents, err := deps.Caches.NewContentCache(app.Settings.ContentCacheSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		app:      app,
		deps:     deps,
		hashes:   hashes,
		contents: contents,
		loadedAt: loadedAt,
	}
	e.warnDeprecated()
	return e, nil
}

// warnDeprecated reports modules that bundle more than one file.
func (e *Engine) warnDeprecated() {
	if e.deps.Logger == nil {
		return
	}
	for m := range e.app.Repository.Modules() {
		if n := len(m.Files()); n > 1 {
			e.deps.Logger.Warn(fmt.Sprintf("module %s declares %d files, prefer one file per module", m.Name(), n))
		}
	}
}

// Application returns the application the engine was built from.
func (e *Engine) Application() *domain.Application {
	return e.app
}

// LoadedAt returns when the application was loaded.
func (e *Engine) LoadedAt() time.Time {
	return e.loadedAt
}

// ContentEncoding returns the Content-Encoding token of compressed content.
func (e *Engine) ContentEncoding() string {
	return e.deps.Compressor.Encoding()
}

// HashCacheStats returns the statistics of the hash cache.
func (e *Engine) HashCacheStats() domain.CacheStats {
	return e.hashes.Stats()
}

// ContentCacheStats returns the statistics of the content cache.
func (e *Engine) ContentCacheStats() domain.CacheStats {
	return e.contents.Stats()
}

// Process writes the content for req to w and returns the number of bytes written.
func (e *Engine) Process(ctx context.Context, req domain.Request, w io.Writer) (int, error) {
	data, err := e.Content(ctx, req)
	if err != nil {
		return 0, err
	}
	return w.Write(data)
}

// Content returns the built content for req.
// A build outlives the caller's cancellation so that its result is cached for
// the next caller; the canceled caller gets ctx.Err() instead.
func (e *Engine) Content(ctx context.Context, req domain.Request) ([]byte, error) {
	ctx, span := e.deps.Tracer.Start(ctx, "engine.process")
	defer span.End()
	span.SetAttribute("path", req.Path())
	span.SetAttribute("gzip", req.Gzip)

	files, err := e.app.Repository.Files(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	identity := e.deps.Hasher.Identity(files, req)
	if key, ok := e.hashes.Get(identity); ok {
		if data, ok := e.contents.Get(key); ok {
			span.SetAttribute("cached", true)
			return data, nil
		}
	}
	span.SetAttribute("cached", false)

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := e.build(context.WithoutCancel(ctx), files, req)
		if err == nil {
			key := e.deps.Hasher.ContentKey(data)
			e.contents.Put(key, data)
			e.hashes.Put(identity, key)
		}
		done <- result{data: data, err: err}
	}()

	select {
	case r := <-done:
		span.RecordError(r.err)
		return r.data, r.err
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return nil, ctx.Err()
	}
}

// build reads and concatenates the chosen representation of every file.
// Each file is terminated by a newline.
func (e *Engine) build(ctx context.Context, files []domain.File, req domain.Request) ([]byte, error) {
	ctx, span := e.deps.Tracer.Start(ctx, "engine.build")
	defer span.End()
	span.SetAttribute("files", len(files))

	var buf bytes.Buffer
	for _, f := range files {
		location := f.Location(req.Minimize)
		data, err := e.deps.Storage.Read(ctx, location)
		if err != nil {
			err = zerr.With(zerr.Wrap(errors.Join(domain.ErrBuildFailed, err), "read file"), "location", location)
			span.RecordError(err)
			return nil, err
		}
		buf.Write(data)
		if len(data) == 0 || data[len(data)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}

	if !req.Gzip {
		return buf.Bytes(), nil
	}

	compressed, err := e.deps.Compressor.Compress(buf.Bytes())
	if err != nil {
		err = zerr.With(zerr.Wrap(errors.Join(domain.ErrBuildFailed, err), "compress content"), "path", req.Path())
		span.RecordError(err)
		return nil, err
	}
	return compressed, nil
}

// LastModified returns the newest modification time of the files chosen for req.
func (e *Engine) LastModified(ctx context.Context, req domain.Request) (time.Time, error) {
	files, err := e.app.Repository.Files(req)
	if err != nil {
		return time.Time{}, err
	}

	var latest time.Time
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}
		location := f.Location(req.Minimize)
		modified, err := e.deps.Storage.LastModified(location)
		if err != nil {
			return time.Time{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrBuildFailed, err), "stat file"), "location", location)
		}
		if modified.After(latest) {
			latest = modified
		}
	}
	return latest, nil
}
