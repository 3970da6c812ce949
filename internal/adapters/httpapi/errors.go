package httpapi

import (
	"context"
	"errors"
	"net/http"

	"go.trai.ch/jasmin/internal/core/domain"
)

// notFound lists the errors that mean the client asked for something that does not exist.
var notFound = []error{
	domain.ErrModuleNotFound,
	domain.ErrInvalidExpression,
	domain.ErrInvalidRequest,
	domain.ErrInvalidVersion,
}

// statusOf maps an error to the HTTP status reported to the client.
func statusOf(err error) int {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	switch {
	case errors.Is(err, domain.ErrStaleVersion):
		return http.StatusGone
	case errors.Is(err, domain.ErrCharsetNotAccepted):
		return http.StatusNotAcceptable
	case errors.Is(err, context.Canceled):
		return statusClientClosed
	default:
		return http.StatusInternalServerError
	}
}

// statusClientClosed is reported when the client went away before the response was ready.
const statusClientClosed = 499

// fail reports err to the client and the log. Client errors are logged as warnings.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)

	switch {
	case status == statusClientClosed:
		if h.logger != nil {
			h.logger.Info("aborted by client: " + r.URL.Path)
		}
		return
	case status >= http.StatusInternalServerError:
		if h.logger != nil {
			h.logger.Error(err)
		}
	case h.logger != nil:
		h.logger.Warn(http.StatusText(status) + ": " + r.URL.Path)
	}

	http.Error(w, http.StatusText(status), status)
}
