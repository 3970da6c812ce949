package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.trai.ch/jasmin/internal/core/domain"
)

// get serves GET /get/{version}/{path...}.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	started := h.clock.Now()

	expire, err := h.gate.Check(r.PathValue("version"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	req, err := domain.ParseRequest(r.PathValue("path"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := domain.CheckCharset(r.Header.Get("Accept-Charset")); err != nil {
		h.fail(w, r, err)
		return
	}

	e, err := h.engines.Acquire(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	header := w.Header()
	if e.Application().Settings.Live {
		header.Set(GreetingHeader, greeting)
	}

	if modified, err := e.LastModified(r.Context(), req); err == nil && !modified.IsZero() {
		modified = modified.UTC().Truncate(time.Second)
		header.Set("Last-Modified", modified.Format(http.TimeFormat))
		if notModified(r, modified) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	if expires := e.Application().Settings.Expires; expire && expires > 0 {
		header.Set("Expires", started.Add(expires).UTC().Format(http.TimeFormat))
		header.Set("Cache-Control", "max-age="+strconv.FormatInt(int64(expires/time.Second), 10))
	}

	req.Gzip = domain.CanGzip(r.Header.Get("Accept-Encoding"), r.Header.Get("User-Agent"))
	header.Add("Vary", "Accept-Encoding")

	data, err := e.Content(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	header.Set("Content-Type", req.Type.MIME())
	if req.Gzip {
		header.Set("Content-Encoding", e.ContentEncoding())
	}
	header.Set("Content-Length", strconv.Itoa(len(data)))
	n, _ := w.Write(data)

	if h.logger != nil {
		referer := r.Header.Get("Referer")
		if referer == "" {
			referer = "-"
		}
		h.logger.Info(fmt.Sprintf("%s|%d|%dms|%t|%s", req.Path(), n, h.since(started).Milliseconds(), req.Gzip, referer))
	}
}

// notModified reports whether the client's copy, dated by If-Modified-Since, is current.
func notModified(r *http.Request, modified time.Time) bool {
	since := r.Header.Get("If-Modified-Since")
	if since == "" {
		return false
	}
	t, err := http.ParseTime(since)
	if err != nil {
		return false
	}
	return !modified.After(t)
}
