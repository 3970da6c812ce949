// Package httpapi serves built content and repository introspection over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/jasmin/internal/engine" //nolint:depguard // The transport drives the engine
)

// GreetingHeader is sent with every content response of a live server.
const GreetingHeader = "Hi"

const greeting = "Sie werden bedient von Jasmin, vielen Dank fuer ihren Request!"

// Engines hands out the engine current for a request.
type Engines interface {
	Acquire(ctx context.Context) (*engine.Engine, error)
	Reset() error
}

// Options configures a Handler.
type Options struct {
	Gate     *domain.VersionGate
	Logger   ports.Logger
	Clock    clockwork.Clock
	Hostname string
	Version  string
}

// Handler routes content and admin requests.
type Handler struct {
	engines  Engines
	gate     *domain.VersionGate
	logger   ports.Logger
	clock    clockwork.Clock
	hostname string
	version  string
	mux      *http.ServeMux
}

var _ http.Handler = (*Handler)(nil)

// New creates a Handler serving the engines handed out by engines.
func New(engines Engines, opts Options) *Handler {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Gate == nil {
		opts.Gate = domain.NewVersionGate(opts.Clock.Now())
	}

	h := &Handler{
		engines:  engines,
		gate:     opts.Gate,
		logger:   opts.Logger,
		clock:    opts.Clock,
		hostname: opts.Hostname,
		version:  opts.Version,
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("GET "+domain.GetPrefix+"{version}/{path...}", h.get)
	h.mux.HandleFunc("GET "+domain.AdminPrefix+"{$}", h.adminSummary)
	h.mux.HandleFunc("GET "+domain.AdminPrefix+"repository", h.adminRepository)
	h.mux.HandleFunc("GET "+domain.AdminPrefix+"module/{name}", h.adminModule)
	h.mux.HandleFunc("GET "+domain.AdminPrefix+"hashCache", h.adminHashCache)
	h.mux.HandleFunc("GET "+domain.AdminPrefix+"contentCache", h.adminContentCache)
	h.mux.HandleFunc("GET "+domain.AdminPrefix+"reload", h.adminWatchSet)
	h.mux.HandleFunc("POST "+domain.AdminPrefix+"reload", h.adminReload)
	h.mux.HandleFunc("GET "+domain.AdminPrefix+"check", h.adminCheck)
	return h
}

// ServeHTTP dispatches the request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Gate returns the version gate deciding on cache-busting tokens.
func (h *Handler) Gate() *domain.VersionGate {
	return h.gate
}

func (h *Handler) since(started time.Time) time.Duration {
	return h.clock.Since(started)
}
