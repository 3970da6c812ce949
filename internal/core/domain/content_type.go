package domain

import "go.trai.ch/zerr"

// ContentType identifies the kind of asset a file holds.
type ContentType string

const (
	// TypeJS is JavaScript content.
	TypeJS ContentType = "js"
	// TypeCSS is stylesheet content.
	TypeCSS ContentType = "css"
)

// ParseContentType validates a content type token.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case TypeJS, TypeCSS:
		return ContentType(s), nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownContentType, "parse content type"), "type", s)
	}
}

// MIME returns the media type sent to clients, including the charset.
func (t ContentType) MIME() string {
	switch t {
	case TypeJS:
		return "application/javascript; charset=utf-8"
	case TypeCSS:
		return "text/css; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
