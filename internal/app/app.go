// Package app implements the application layer for jasmin.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"go.trai.ch/jasmin/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/jasmin/internal/adapters/httpapi" //nolint:depguard // Wired in app layer
	"go.trai.ch/jasmin/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/jasmin/internal/build"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/jasmin/internal/engine"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	// ReadHeaderTimeout bounds how long a client may take to send request headers.
	ReadHeaderTimeout = 10 * time.Second
	// ShutdownTimeout bounds how long in-flight requests may take once serving stops.
	ShutdownTimeout = 5 * time.Second
)

// App represents the main application logic.
type App struct {
	loader     ports.ConfigLoader
	deps       engine.Deps
	newWatcher ports.WatcherFactory
	walker     *fs.Walker
	logger     ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	deps engine.Deps,
	newWatcher ports.WatcherFactory,
	walker *fs.Walker,
	log ports.Logger,
) *App {
	return &App{
		loader:     loader,
		deps:       deps,
		newWatcher: newWatcher,
		walker:     walker,
		logger:     log,
	}
}

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	Addr       string
	ConfigPath string
	// Live overrides the live flag of the config file when set.
	Live *bool
	// Ready is called with the bound address once the listener accepts connections.
	Ready func(addr string)
}

// Serve answers HTTP requests until ctx is canceled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	var resolverOpts []engine.ResolverOption
	if opts.Live != nil {
		resolverOpts = append(resolverOpts, engine.WithLive(*opts.Live))
	}
	reloader, err := a.reloader(opts.ConfigPath, resolverOpts...)
	if err != nil {
		return err
	}

	// Fail fast on a broken config file.
	current, err := reloader.Acquire(ctx)
	if err != nil {
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	handler := httpapi.New(reloader, httpapi.Options{
		Logger:   a.logger,
		Clock:    a.deps.Clock,
		Hostname: hostname,
		Version:  build.Version,
	})

	addr := opts.Addr
	if addr == "" {
		addr = domain.DefaultAddr
	}
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "listen"), "addr", addr)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return zerr.Wrap(err, "serve http")
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	app := current.Application()
	if app.Settings.Live && a.newWatcher != nil {
		watchSets := make(chan []string, 1)
		watchSets <- app.WatchSet()
		reloader.OnReload(func(watchSet []string) {
			// Only the latest watch set matters.
			select {
			case <-watchSets:
			default:
			}
			watchSets <- watchSet
		})

		g.Go(func() error {
			err := watcher.Follow(ctx, a.newWatcher, watchSets, func(paths []string) {
				a.logger.Info("changed: " + strings.Join(paths, ", "))
				if err := reloader.Reset(); err != nil {
					a.logger.Error(err)
					return
				}
				if _, err := reloader.Acquire(ctx); err != nil && ctx.Err() == nil {
					a.logger.Error(err)
				}
			})
			if err != nil {
				// The modification time poll still catches every change.
				a.logger.Warn("file watcher unavailable: " + err.Error())
			}
			return nil
		})
	}

	mode := "frozen"
	if app.Settings.Live {
		mode = "live"
	}
	a.logger.Info(fmt.Sprintf("serving %s (%s) on http://%s", app.Settings.Root, mode, listener.Addr()))
	if opts.Ready != nil {
		opts.Ready(listener.Addr().String())
	}

	return g.Wait()
}

// GetOptions configuration for the Get method.
type GetOptions struct {
	ConfigPath string
	// Path is a request path of the form <expression>/<type>[-min][/<variant>].
	Path string
	Gzip bool
	// Output receives the content unless OutputFile is set.
	Output io.Writer
	// OutputFile is replaced atomically with the content when set.
	OutputFile string
}

// Get builds the content for one request path.
func (a *App) Get(ctx context.Context, opts GetOptions) error {
	req, err := domain.ParseRequest(opts.Path)
	if err != nil {
		return err
	}
	req.Gzip = opts.Gzip

	current, err := a.load(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.OutputFile == "" {
		_, err := current.Process(ctx, req, opts.Output)
		return err
	}

	content, err := current.Content(ctx, req)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(opts.OutputFile, bytes.NewReader(content)); err != nil {
		return zerr.With(zerr.Wrap(err, "write output"), "path", opts.OutputFile)
	}
	a.logger.Info(fmt.Sprintf("wrote %d bytes of %s to %s", len(content), req.Path(), opts.OutputFile))
	return nil
}

// Modules lists every module of the repository.
func (a *App) Modules(ctx context.Context, configPath string) ([]domain.ModuleSummary, error) {
	current, err := a.load(ctx, configPath)
	if err != nil {
		return nil, err
	}
	return current.Application().Repository.Summarize(), nil
}

// Module describes the module with the given name.
func (a *App) Module(ctx context.Context, configPath, name string) (domain.ModuleDetail, error) {
	current, err := a.load(ctx, configPath)
	if err != nil {
		return domain.ModuleDetail{}, err
	}
	m, ok := current.Application().Repository.Lookup(name)
	if !ok {
		return domain.ModuleDetail{}, zerr.With(zerr.Wrap(domain.ErrModuleNotFound, "describe module"), "module", name)
	}
	return m.Describe(), nil
}

// CheckOptions configuration for the Check method.
type CheckOptions struct {
	ConfigPath string
	// Ignore lists doublestar globs, relative to the docroot, excluded from the
	// unreferenced file scan.
	Ignore      []string
	Parallelism int
}

// CheckReport is the outcome of a file check.
type CheckReport struct {
	Problems []domain.CheckProblem `json:"problems"`
	// Unreferenced lists asset files below the docroot that no module declares.
	Unreferenced []string `json:"unreferenced"`
}

// Clean reports whether the check found no problems.
func (r CheckReport) Clean() bool {
	return len(r.Problems) == 0
}

// Check verifies every file of the repository and scans the docroot for
// asset files no module references.
func (a *App) Check(ctx context.Context, opts CheckOptions) (CheckReport, error) {
	for _, pattern := range opts.Ignore {
		if err := fs.ValidatePattern(pattern); err != nil {
			return CheckReport{}, err
		}
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = engine.DefaultCheckParallelism
	}

	current, err := a.load(ctx, opts.ConfigPath)
	if err != nil {
		return CheckReport{}, err
	}
	app := current.Application()

	var report CheckReport
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		problems, err := current.Check(ctx, parallelism)
		if err != nil {
			return err
		}
		report.Problems = append([]domain.CheckProblem{}, problems...)
		return nil
	})

	g.Go(func() error {
		referenced := make(map[string]bool)
		for m := range app.Repository.Modules() {
			for _, f := range m.Files() {
				for _, location := range f.Locations() {
					referenced[location] = true
				}
			}
		}
		unreferenced := []string{}
		for path := range a.walker.WalkAssets(app.Settings.Root, opts.Ignore...) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !referenced[path] {
				unreferenced = append(unreferenced, path)
			}
		}
		slices.Sort(unreferenced)
		report.Unreferenced = unreferenced
		return nil
	})

	if err := g.Wait(); err != nil {
		return CheckReport{}, err
	}
	return report, nil
}

// load builds a frozen engine for one-shot commands.
func (a *App) load(ctx context.Context, configPath string) (*engine.Engine, error) {
	reloader, err := a.reloader(configPath, engine.WithLive(false))
	if err != nil {
		return nil, err
	}
	return reloader.Acquire(ctx)
}

func (a *App) reloader(configPath string, opts ...engine.ResolverOption) (*engine.Reloader, error) {
	path, err := a.configPath(configPath)
	if err != nil {
		return nil, err
	}
	resolver := engine.NewResolver(path, a.loader, a.deps.Storage, a.deps.Clock, opts...)
	return engine.NewReloader(resolver, a.deps), nil
}

// configPath returns path, or the nearest config file above the working directory.
func (a *App) configPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "get working directory")
	}
	return a.loader.Discover(wd)
}
