package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/engine" //nolint:depguard // The transport drives the engine
)

// acquire returns the current engine or reports the failure.
func (h *Handler) acquire(w http.ResponseWriter, r *http.Request) (*engine.Engine, bool) {
	e, err := h.engines.Acquire(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return e, true
}

func (h *Handler) adminSummary(w http.ResponseWriter, r *http.Request) {
	e, ok := h.acquire(w, r)
	if !ok {
		return
	}
	app := e.Application()

	reload := "(no reload)"
	if app.Settings.Live {
		reload = "reload: " + domain.AdminPrefix + "reload"
	}
	text(w,
		"jasmin "+h.version,
		"hostname: "+h.hostname,
		"docroot: "+app.Settings.Root,
		"config: "+app.ConfigPath,
		"started: "+h.gate.Token(),
		"peer started: "+h.gate.Peer().Format(domain.VersionLayout),
		"loaded: "+e.LoadedAt().UTC().Format(time.RFC3339),
		"hashCache: "+e.HashCacheStats().String(),
		"contentCache: "+e.ContentCacheStats().String(),
		reload,
	)
}

func (h *Handler) adminRepository(w http.ResponseWriter, r *http.Request) {
	e, ok := h.acquire(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, e.Application().Repository.Summarize())
}

func (h *Handler) adminModule(w http.ResponseWriter, r *http.Request) {
	e, ok := h.acquire(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")
	m, found := e.Application().Repository.Lookup(name)
	if !found {
		h.fail(w, r, domain.ErrModuleNotFound)
		return
	}
	h.writeJSON(w, r, m.Describe())
}

func (h *Handler) adminHashCache(w http.ResponseWriter, r *http.Request) {
	if e, ok := h.acquire(w, r); ok {
		text(w, "hashCache "+e.HashCacheStats().String())
	}
}

func (h *Handler) adminContentCache(w http.ResponseWriter, r *http.Request) {
	if e, ok := h.acquire(w, r); ok {
		text(w, "contentCache "+e.ContentCacheStats().String())
	}
}

// adminWatchSet lists the files whose change triggers a reload.
func (h *Handler) adminWatchSet(w http.ResponseWriter, r *http.Request) {
	e, ok := h.acquire(w, r)
	if !ok {
		return
	}
	text(w, e.Application().WatchSet()...)
}

// adminReload discards the current engine and lists the watch set of the new one.
func (h *Handler) adminReload(w http.ResponseWriter, r *http.Request) {
	if err := h.engines.Reset(); err != nil {
		h.fail(w, r, err)
		return
	}
	if h.logger != nil {
		h.logger.Info("reload requested through " + r.URL.Path)
	}
	h.adminWatchSet(w, r)
}

func (h *Handler) adminCheck(w http.ResponseWriter, r *http.Request) {
	e, ok := h.acquire(w, r)
	if !ok {
		return
	}
	problems, err := e.Check(r.Context(), engine.DefaultCheckParallelism)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(problems) == 0 {
		text(w, "ok")
		return
	}
	lines := make([]string, 0, len(problems))
	for _, p := range problems {
		lines = append(lines, p.String())
	}
	text(w, lines...)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(data, '\n'))
}

func text(w http.ResponseWriter, lines ...string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, _ = w.Write([]byte(b.String()))
}
