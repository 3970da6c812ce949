package domain

import (
	"slices"
	"time"
)

// Settings holds the runtime options read from the config file.
type Settings struct {
	// Root is the absolute directory file locations are resolved against.
	Root string
	// Live enables development mode: watched files are checked for changes.
	Live bool
	// Expires is how long clients may cache versioned content. Zero disables expiry headers.
	Expires time.Duration
	// HashCacheSize is the entry count of the hash cache.
	HashCacheSize int
	// ContentCacheSize is the byte ceiling of the content cache.
	ContentCacheSize int64
}

// DefaultSettings returns the settings used for keys missing from the config file.
func DefaultSettings() Settings {
	return Settings{
		HashCacheSize:    DefaultHashCacheSize,
		ContentCacheSize: DefaultContentCacheSize,
	}
}

// Application is a loaded config file: the sealed repository plus its settings.
type Application struct {
	Repository *Repository
	Settings   Settings
	ConfigPath string
}

// WatchSet returns every location referenced by the repository plus the config
// file, sorted and without duplicates. It is empty unless the application is live.
func (a *Application) WatchSet() []string {
	if !a.Settings.Live {
		return nil
	}

	var set []string
	if a.ConfigPath != "" {
		set = append(set, a.ConfigPath)
	}
	for m := range a.Repository.Modules() {
		for _, f := range m.Files() {
			set = append(set, f.Locations()...)
		}
	}
	slices.Sort(set)
	return slices.Compact(set)
}
