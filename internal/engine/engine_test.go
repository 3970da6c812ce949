package engine_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/jasmin/internal/adapters/cache"
	"go.trai.ch/jasmin/internal/adapters/compress"
	"go.trai.ch/jasmin/internal/adapters/fs"
	"go.trai.ch/jasmin/internal/adapters/telemetry"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports/mocks"
	"go.trai.ch/jasmin/internal/engine"
	"go.uber.org/mock/gomock"
)

var loadTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// contents maps every location of the test repository to its bytes.
var contents = map[string][]byte{
	"/srv/base.js":     []byte("var base = 1;"),
	"/srv/base.min.js": []byte("var base=1;\n"),
	"/srv/app.js":      []byte("var app = base + 1;\n"),
	"/srv/app-ie.js":   []byte("// ie fixes\n"),
	"/srv/app.css":     []byte("body { margin: 0 }\n"),
}

// newApplication builds base <- app, where app carries an ie variant.
func newApplication(t *testing.T) *domain.Application {
	t.Helper()

	base, err := domain.NewModule("base", domain.Source{GroupID: "ch.trai", ArtifactID: "base", Version: "1.0"})
	require.NoError(t, err)
	require.NoError(t, base.AddFile(domain.File{Type: domain.TypeJS, Normal: "/srv/base.js", Minimized: "/srv/base.min.js"}))

	app, err := domain.NewModule("app", domain.Source{})
	require.NoError(t, err)
	require.NoError(t, app.AddFile(domain.File{Type: domain.TypeJS, Normal: "/srv/app.js"}))
	require.NoError(t, app.AddFile(domain.File{Type: domain.TypeJS, Normal: "/srv/app-ie.js", Variant: "ie"}))

	styles, err := domain.NewModule("styles", domain.Source{})
	require.NoError(t, err)
	require.NoError(t, styles.AddFile(domain.File{Type: domain.TypeCSS, Normal: "/srv/app.css"}))

	repo := domain.NewRepository()
	require.NoError(t, repo.Add(base))
	require.NoError(t, repo.Add(app))
	require.NoError(t, repo.Add(styles))
	require.NoError(t, repo.Link("app", "base"))
	require.NoError(t, repo.Validate())

	settings := domain.DefaultSettings()
	settings.Root = "/srv"
	return &domain.Application{Repository: repo, Settings: settings, ConfigPath: "/srv/jasmin.yaml"}
}

func newDeps(t *testing.T, storage *mocks.MockStorage) engine.Deps {
	t.Helper()

	compressor, err := compress.NewGzip(gzip.BestSpeed)
	require.NoError(t, err)

	return engine.Deps{
		Storage:    storage,
		Hasher:     fs.NewHasher(),
		Compressor: compressor,
		Caches:     cache.DefaultFactory(),
		Tracer:     telemetry.NewNoOpTracer(),
		Clock:      clockwork.NewFakeClockAt(loadTime),
	}
}

// expectReads serves contents through storage and counts reads per location.
func expectReads(storage *mocks.MockStorage) map[string]int {
	var mu sync.Mutex
	reads := make(map[string]int)
	storage.EXPECT().Read(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, location string) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		reads[location]++
		data, ok := contents[location]
		if !ok {
			return nil, errors.New("open " + location + ": no such file or directory")
		}
		return data, nil
	}).AnyTimes()
	return reads
}

func jsRequest(expression, variant string) domain.Request {
	return domain.Request{Expression: expression, Type: domain.TypeJS, Variant: variant}
}

func TestEngine_Process(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	expectReads(storage)

	e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  domain.Request
		want string
	}{
		{
			name: "dependencies first and newline terminated",
			req:  jsRequest("app", domain.DefaultVariant),
			want: "var base = 1;\nvar app = base + 1;\n",
		},
		{
			name: "variant files follow default files",
			req:  jsRequest("app", "ie:7"),
			want: "var base = 1;\nvar app = base + 1;\n// ie fixes\n",
		},
		{
			name: "minimized representation when available",
			req:  domain.Request{Expression: "app", Type: domain.TypeJS, Variant: "lead", Minimize: true},
			want: "var base=1;\nvar app = base + 1;\n",
		},
		{
			name: "exclusion removes the closure",
			req:  jsRequest("app!base", domain.DefaultVariant),
			want: "var app = base + 1;\n",
		},
		{
			name: "content type selects files",
			req:  domain.Request{Expression: "styles+app", Type: domain.TypeCSS, Variant: "lead"},
			want: "body { margin: 0 }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := e.Process(context.Background(), tt.req, &buf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, len(tt.want), n)
		})
	}
}

func TestEngine_Content_SecondCallIsCacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	reads := expectReads(storage)

	e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
	require.NoError(t, err)

	first, err := e.Content(context.Background(), jsRequest("app", "lead"))
	require.NoError(t, err)
	second, err := e.Content(context.Background(), jsRequest("app", "lead"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reads["/srv/app.js"])
	assert.Equal(t, uint64(1), e.HashCacheStats().Hits)
	assert.Equal(t, uint64(1), e.ContentCacheStats().Hits)
	assert.Equal(t, 1, e.ContentCacheStats().Entries)
}

func TestEngine_Content_EquivalentExpressionsShareIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	reads := expectReads(storage)

	e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
	require.NoError(t, err)

	_, err = e.Content(context.Background(), jsRequest("app", "lead"))
	require.NoError(t, err)
	_, err = e.Content(context.Background(), jsRequest("base+app", "lead"))
	require.NoError(t, err)

	assert.Equal(t, 1, reads["/srv/base.js"])
	assert.Equal(t, 1, e.HashCacheStats().Entries)
}

func TestEngine_Content_Gzip(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	expectReads(storage)

	e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
	require.NoError(t, err)

	req := jsRequest("app", "lead")
	req.Gzip = true
	data, err := e.Content(context.Background(), req)
	require.NoError(t, err)

	r, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	plain, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "var base = 1;\nvar app = base + 1;\n", string(plain))
}

func TestEngine_Content_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.Request
		wantErr error
	}{
		{name: "unknown module", req: jsRequest("nope", "lead"), wantErr: domain.ErrModuleNotFound},
		{name: "invalid expression", req: jsRequest("!base", "lead"), wantErr: domain.ErrInvalidExpression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			storage := mocks.NewMockStorage(ctrl)

			e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
			require.NoError(t, err)

			_, err = e.Content(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEngine_Content_BuildFailureIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	storage.EXPECT().Read(gomock.Any(), "/srv/base.js").Return(nil, errors.New("permission denied")).Times(2)

	e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
	require.NoError(t, err)

	for range 2 {
		_, err = e.Content(context.Background(), jsRequest("app", "lead"))
		require.ErrorIs(t, err, domain.ErrBuildFailed)
	}
	assert.Equal(t, 0, e.ContentCacheStats().Entries)
}

func TestEngine_Content_BuildFailureKeepsCause(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	missing := &os.PathError{Op: "open", Path: "/srv/base.js", Err: os.ErrNotExist}
	storage.EXPECT().Read(gomock.Any(), "/srv/base.js").Return(nil, missing)

	e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
	require.NoError(t, err)

	_, err = e.Content(context.Background(), jsRequest("app", "lead"))
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	require.ErrorIs(t, err, os.ErrNotExist)

	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "/srv/base.js", pathErr.Path)
}

func TestEngine_Content_CanceledCallerStillPopulatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)

	release := make(chan struct{})
	storage.EXPECT().Read(gomock.Any(), "/srv/base.js").DoAndReturn(func(ctx context.Context, _ string) ([]byte, error) {
		<-release
		// The build context is detached from the caller.
		assert.NoError(t, ctx.Err())
		return contents["/srv/base.js"], nil
	}).Times(1)
	storage.EXPECT().Read(gomock.Any(), "/srv/app.js").Return(contents["/srv/app.js"], nil).Times(1)

	e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := e.Content(ctx, jsRequest("app", "lead"))
		errCh <- err
	}()

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	close(release)

	require.Eventually(t, func() bool {
		return e.ContentCacheStats().Entries == 1
	}, time.Second, 5*time.Millisecond)

	data, err := e.Content(context.Background(), jsRequest("app", "lead"))
	require.NoError(t, err)
	assert.Equal(t, "var base = 1;\nvar app = base + 1;\n", string(data))
}

func TestEngine_LastModified(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	storage.EXPECT().LastModified("/srv/base.min.js").Return(loadTime.Add(-time.Hour), nil)
	storage.EXPECT().LastModified("/srv/app.js").Return(loadTime.Add(-time.Minute), nil)

	e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
	require.NoError(t, err)

	req := jsRequest("app", "lead")
	req.Minimize = true
	got, err := e.LastModified(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, loadTime.Add(-time.Minute), got)
}

func TestEngine_LastModified_MissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	storage.EXPECT().LastModified("/srv/base.js").Return(time.Time{}, errors.New("no such file or directory"))

	e, err := engine.New(newApplication(t), newDeps(t, storage), loadTime)
	require.NoError(t, err)

	_, err = e.LastModified(context.Background(), jsRequest("app", "lead"))
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.ErrorContains(t, err, "no such file or directory")
}

func TestEngine_New_WarnsAboutMultiFileModules(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("module app declares 2 files, prefer one file per module").Times(1)

	deps := newDeps(t, storage)
	deps.Logger = log

	e, err := engine.New(newApplication(t), deps, loadTime)
	require.NoError(t, err)
	assert.Equal(t, loadTime, e.LoadedAt())
}

func TestEngine_Content_RecordsSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	expectReads(storage)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	deps := newDeps(t, storage)
	deps.Tracer = telemetry.NewOTelTracerFrom(provider, "test")

	e, err := engine.New(newApplication(t), deps, loadTime)
	require.NoError(t, err)

	_, err = e.Content(context.Background(), jsRequest("app", "lead"))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "engine.build", spans[0].Name())
	assert.Equal(t, "engine.process", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}
