package engine

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver owns the provenance of the repository: the config file it is
// loaded from, whether it runs live, and which files must be watched.
type Resolver struct {
	configPath string
	loader     ports.ConfigLoader
	storage    ports.Storage
	clock      clockwork.Clock
	live       *bool

	mu  sync.Mutex
	app *domain.Application
	// wasLive is the live flag of the last loaded config file. It survives Reset.
	wasLive bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLive overrides the live flag of the config file.
func WithLive(live bool) ResolverOption {
	return func(r *Resolver) {
		r.live = &live
	}
}

// NewResolver creates a Resolver for the config file at configPath.
func NewResolver(
	configPath string,
	loader ports.ConfigLoader,
	storage ports.Storage,
	clock clockwork.Clock,
	opts ...ResolverOption,
) *Resolver {
	r := &Resolver{
		configPath: configPath,
		loader:     loader,
		storage:    storage,
		clock:      clock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ConfigPath returns the path of the config file.
func (r *Resolver) ConfigPath() string {
	return r.configPath
}

// Application returns the loaded application, loading it on first use.
func (r *Resolver) Application() (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.app != nil {
		return r.app, nil
	}

	app, err := r.loader.Load(r.configPath)
	if err != nil {
		return nil, err
	}
	if r.live != nil {
		app.Settings.Live = *r.live
	}
	r.app = app
	r.wasLive = app.Settings.Live
	return app, nil
}

// IsLive reports whether the watch set is checked before serving.
// Between a Reset and the next load it keeps the flag of the last load.
func (r *Resolver) IsLive() bool {
	if r.live != nil {
		return *r.live
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wasLive
}

// WatchSet returns the files that must be checked for changes.
// It is empty in frozen mode or before the first load.
func (r *Resolver) WatchSet() []string {
	r.mu.Lock()
	app := r.app
	r.mu.Unlock()

	if app == nil {
		return nil
	}
	return app.WatchSet()
}

// Reset drops the loaded application. The next call to Application reloads it.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.app = nil
}

// Changed reports whether a watched file was modified after since.
// A file that can no longer be read counts as changed. A modification time
// in the future fails with ErrClockAnomaly, whatever the other files report.
func (r *Resolver) Changed(since time.Time) (bool, error) {
	now := r.clock.Now()
	changed := false

	for _, location := range r.WatchSet() {
		modified, err := r.storage.LastModified(location)
		if err != nil {
			changed = true
			continue
		}
		if modified.After(now) {
			err := zerr.With(zerr.Wrap(domain.ErrClockAnomaly, "check watch set"), "path", location)
			return false, zerr.With(err, "modified", modified.UTC().Format(time.RFC3339))
		}
		if modified.After(since) {
			changed = true
		}
	}
	return changed, nil
}
