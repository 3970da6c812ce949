package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the repository configuration file.
	ConfigFileName = "jasmin.yaml"

	// DefaultHashCacheSize is the default number of resolution identities kept.
	DefaultHashCacheSize = 4096

	// DefaultContentCacheSize is the default byte ceiling of the content cache (64 MiB).
	DefaultContentCacheSize = 64 << 20

	// DefaultContentCacheEntries is the entry cap of the content cache.
	DefaultContentCacheEntries = 1024

	// DefaultAddr is the default listen address of the HTTP server.
	DefaultAddr = "localhost:8080"

	// GetPrefix is the URL prefix of content requests.
	GetPrefix = "/get/"

	// AdminPrefix is the URL prefix of the introspection endpoints.
	AdminPrefix = "/admin/"
)

// DefaultConfigPath returns the config file path inside dir.
func DefaultConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}
