package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Reloader hands out the current Engine and replaces it when the repository
// it was built from goes stale. Readers never observe a partially built engine.
type Reloader struct {
	resolver *Resolver
	deps     Deps

	current  atomic.Pointer[Engine]
	mu       sync.Mutex
	onReload []func(watchSet []string)
}

// NewReloader creates a Reloader. No engine is built until the first Acquire.
func NewReloader(resolver *Resolver, deps Deps) *Reloader {
	return &Reloader{
		resolver: resolver,
		deps:     deps,
	}
}

// OnReload registers fn to be called with the new watch set after every rebuild.
func (r *Reloader) OnReload(fn func(watchSet []string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReload = append(r.onReload, fn)
}

// Acquire returns an engine that is current with respect to the watch set.
// In frozen mode the first engine is kept forever. In live mode the watch set
// is checked on every call and a stale engine is rebuilt by exactly one caller.
func (r *Reloader) Acquire(ctx context.Context) (*Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := r.current.Load()
	if seen != nil {
		if !r.resolver.IsLive() {
			return seen, nil
		}
		changed, err := r.resolver.Changed(seen.LoadedAt())
		if err != nil {
			return nil, err
		}
		if !changed {
			return seen, nil
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller rebuilt while we waited.
	if current := r.current.Load(); current != seen && current != nil {
		return current, nil
	}
	if seen != nil {
		r.resolver.Reset()
	}
	return r.rebuild()
}

// Reset discards the current engine. The next Acquire rebuilds the repository
// and both caches even if nothing changed. A watched file modified in the
// future fails with ErrClockAnomaly and keeps the current engine.
func (r *Reloader) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current := r.current.Load(); current != nil {
		if _, err := r.resolver.Changed(current.LoadedAt()); err != nil {
			return err
		}
	}
	r.current.Store(nil)
	r.resolver.Reset()
	return nil
}

// rebuild loads the application and swaps in a new engine. Callers must hold mu.
// On failure no engine is kept, so the next Acquire tries again.
func (r *Reloader) rebuild() (*Engine, error) {
	loadedAt := r.deps.Clock.Now()

	app, err := r.resolver.Application()
	if err != nil {
		r.current.Store(nil)
		return nil, err
	}
	e, err := New(app, r.deps, loadedAt)
	if err != nil {
		r.current.Store(nil)
		r.resolver.Reset()
		return nil, err
	}
	r.current.Store(e)

	watchSet := app.WatchSet()
	if r.deps.Logger != nil {
		r.deps.Logger.Info(fmt.Sprintf("loaded %d modules from %s", app.Repository.Len(), app.ConfigPath))
		if len(watchSet) > 0 {
			r.deps.Logger.Info("watching " + strings.Join(watchSet, ", "))
		}
	}
	for _, fn := range r.onReload {
		fn(watchSet)
	}
	return e, nil
}
