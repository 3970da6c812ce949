package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jasmin/internal/adapters/logger"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func chainedError() error {
	inner := zerr.With(zerr.Wrap(errors.New("open /srv/app.js: no such file or directory"), "build failed"), "location", "/srv/app.js")
	return zerr.With(zerr.Wrap(inner, "serve request"), "path", "app/js/lead")
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("GET app/js/lead|42|3ms|gzip|-")

	goldie.New(t).Assert(t, "info_request", buf.Bytes())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("module widgets has 2 files")

	assert.Equal(t, "! module widgets has 2 files\n", buf.String())
}

func TestLogger_Error_Chain(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(chainedError())

	goldie.New(t).Assert(t, "error_chain", buf.Bytes())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_Error_Sentinel(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(zerr.With(zerr.Wrap(domain.ErrModuleNotFound, "resolve expression"), "module", "nope"))

	assert.Equal(t, "✗ Error: resolve expression (module=nope)\n\n  Caused by:\n    → module not found\n", buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("hello")
	lg.Error(chainedError())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "hello", info["msg"])

	var failure map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &failure))
	assert.Equal(t, "ERROR", failure["level"])
	assert.Equal(t, "operation failed", failure["msg"])
}

func TestLogger_SetQuiet(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetQuiet(true)

	lg.Info("dropped")
	lg.Warn("kept")

	assert.Equal(t, "! kept\n", buf.String())
}

func TestCollectErrorEntries(t *testing.T) {
	entries := logger.CollectErrorEntries(chainedError())
	require.Len(t, entries, 3)

	assert.Equal(t, "serve request", logger.EntryMessage(entries[0]))
	assert.Equal(t, map[string]any{"path": "app/js/lead"}, logger.EntryMetadata(entries[0]))
	assert.Equal(t, "build failed", logger.EntryMessage(entries[1]))
	assert.Equal(t, "open /srv/app.js: no such file or directory", logger.EntryMessage(entries[2]))
	assert.Nil(t, logger.EntryMetadata(entries[2]))
}

func TestFormatErrorEntries_Multiline(t *testing.T) {
	got := logger.FormatErrorEntries(logger.CollectErrorEntries(zerr.Wrap(errors.New("a\nb"), "top\nmore")))

	assert.Equal(t, "Error: top\n       more\n\n  Caused by:\n    → a\n      b", got)
}
