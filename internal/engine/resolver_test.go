package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports/mocks"
	"go.trai.ch/jasmin/internal/engine"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const configPath = "/srv/jasmin.yaml"

var watchSet = []string{
	"/srv/app-ie.js",
	"/srv/app.css",
	"/srv/app.js",
	"/srv/base.js",
	"/srv/base.min.js",
	"/srv/jasmin.yaml",
}

// expectLoads returns a fresh application for every Load call.
func expectLoads(t *testing.T, loader *mocks.MockConfigLoader, times int) {
	t.Helper()
	loader.EXPECT().Load(configPath).DoAndReturn(func(string) (*domain.Application, error) {
		return newApplication(t), nil
	}).Times(times)
}

func TestResolver_Application_LoadsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	expectLoads(t, loader, 1)

	r := engine.NewResolver(configPath, loader, mocks.NewMockStorage(ctrl), clockwork.NewFakeClock())

	first, err := r.Application()
	require.NoError(t, err)
	second, err := r.Application()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, configPath, r.ConfigPath())
}

func TestResolver_Application_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loadErr := zerr.With(zerr.Wrap(domain.ErrCycleDetected, "validate repository"), "cycle", "a -> b -> a")
	loader.EXPECT().Load(configPath).Return(nil, loadErr).Times(2)

	r := engine.NewResolver(configPath, loader, mocks.NewMockStorage(ctrl), clockwork.NewFakeClock())

	_, err := r.Application()
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	// A failed load is retried on the next call.
	_, err = r.Application()
	require.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestResolver_IsLiveAndWatchSet(t *testing.T) {
	tests := []struct {
		name      string
		opts      []engine.ResolverOption
		wantLive  bool
		wantWatch []string
	}{
		{name: "frozen by config", wantLive: false, wantWatch: nil},
		{name: "live override", opts: []engine.ResolverOption{engine.WithLive(true)}, wantLive: true, wantWatch: watchSet},
		{name: "frozen override", opts: []engine.ResolverOption{engine.WithLive(false)}, wantLive: false, wantWatch: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := mocks.NewMockConfigLoader(ctrl)
			expectLoads(t, loader, 1)

			r := engine.NewResolver(configPath, loader, mocks.NewMockStorage(ctrl), clockwork.NewFakeClock(), tt.opts...)
			assert.Empty(t, r.WatchSet(), "nothing is watched before the first load")

			_, err := r.Application()
			require.NoError(t, err)

			assert.Equal(t, tt.wantLive, r.IsLive())
			assert.Equal(t, tt.wantWatch, r.WatchSet())
		})
	}
}

func TestResolver_Reset(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	expectLoads(t, loader, 2)

	r := engine.NewResolver(configPath, loader, mocks.NewMockStorage(ctrl), clockwork.NewFakeClock())

	first, err := r.Application()
	require.NoError(t, err)
	r.Reset()
	second, err := r.Application()
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestResolver_IsLive_SurvivesReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(configPath).DoAndReturn(func(string) (*domain.Application, error) {
		app := newApplication(t)
		app.Settings.Live = true
		return app, nil
	})

	r := engine.NewResolver(configPath, loader, mocks.NewMockStorage(ctrl), clockwork.NewFakeClock())
	assert.False(t, r.IsLive(), "nothing is live before the first load")

	_, err := r.Application()
	require.NoError(t, err)
	require.True(t, r.IsLive())

	r.Reset()
	assert.True(t, r.IsLive())
	assert.Empty(t, r.WatchSet())
}

func TestResolver_Changed(t *testing.T) {
	now := loadTime.Add(time.Hour)

	tests := []struct {
		name        string
		modified    map[string]time.Time
		missing     string
		wantChanged bool
		wantErr     error
	}{
		{
			name:        "nothing modified since load",
			wantChanged: false,
		},
		{
			name:        "source file modified",
			modified:    map[string]time.Time{"/srv/app.js": loadTime.Add(time.Minute)},
			wantChanged: true,
		},
		{
			name:        "config file modified",
			modified:    map[string]time.Time{configPath: now},
			wantChanged: true,
		},
		{
			name:        "removed file counts as changed",
			missing:     "/srv/base.min.js",
			wantChanged: true,
		},
		{
			name: "future modification time is refused",
			modified: map[string]time.Time{
				"/srv/app-ie.js": loadTime.Add(time.Minute),
				"/srv/app.js":    now.Add(time.Second),
			},
			wantErr: domain.ErrClockAnomaly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := mocks.NewMockConfigLoader(ctrl)
			expectLoads(t, loader, 1)

			storage := mocks.NewMockStorage(ctrl)
			storage.EXPECT().LastModified(gomock.Any()).DoAndReturn(func(location string) (time.Time, error) {
				if location == tt.missing {
					return time.Time{}, errors.New("no such file or directory")
				}
				if modified, ok := tt.modified[location]; ok {
					return modified, nil
				}
				return loadTime.Add(-24 * time.Hour), nil
			}).AnyTimes()

			r := engine.NewResolver(configPath, loader, storage, clockwork.NewFakeClockAt(now), engine.WithLive(true))
			_, err := r.Application()
			require.NoError(t, err)

			changed, err := r.Changed(loadTime)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, changed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestResolver_Changed_FrozenChecksNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	expectLoads(t, loader, 1)

	r := engine.NewResolver(configPath, loader, mocks.NewMockStorage(ctrl), clockwork.NewFakeClock())
	_, err := r.Application()
	require.NoError(t, err)

	changed, err := r.Changed(time.Time{})
	require.NoError(t, err)
	assert.False(t, changed)
}
