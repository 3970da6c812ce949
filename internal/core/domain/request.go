package domain

import (
	"errors"
	"strings"

	"go.trai.ch/zerr"
)

// MinimizedSuffix marks a content type segment that asks for minimized files.
const MinimizedSuffix = "-min"

// Request is a parsed resolution request.
type Request struct {
	Expression string
	Type       ContentType
	Variant    string
	Minimize   bool
	Gzip       bool
}

// ParseRequest parses a path of the form <expression>/<type>[-min][/<variant>].
// A missing variant selects DefaultVariant.
func ParseRequest(path string) (Request, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || len(segments) > 3 || segments[0] == "" {
		return Request{}, zerr.With(zerr.Wrap(ErrInvalidRequest, "parse request"), "path", path)
	}

	typ, minimize := strings.CutSuffix(segments[1], MinimizedSuffix)
	contentType, err := ParseContentType(typ)
	if err != nil {
		return Request{}, zerr.With(zerr.Wrap(errors.Join(ErrInvalidRequest, err), "parse request"), "path", path)
	}

	variant := DefaultVariant
	if len(segments) == 3 && segments[2] != "" {
		variant = segments[2]
	}

	return Request{
		Expression: segments[0],
		Type:       contentType,
		Variant:    variant,
		Minimize:   minimize,
	}, nil
}

// Path renders the request in the form accepted by ParseRequest.
func (r Request) Path() string {
	typ := string(r.Type)
	if r.Minimize {
		typ += MinimizedSuffix
	}
	return r.Expression + "/" + typ + "/" + r.Variant
}
