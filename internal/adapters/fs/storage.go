package fs

import (
	"context"
	"os"
	"time"

	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Storage = (*Storage)(nil)

// Storage reads asset files from the local file system.
type Storage struct{}

// NewStorage creates a new Storage.
func NewStorage() *Storage {
	return &Storage{}
}

// Read returns the content of the file at location.
func (s *Storage) Read(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(location) //nolint:gosec // Locations come from the repository config
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", location)
	}
	return data, nil
}

// LastModified returns the modification time of the file at location.
func (s *Storage) LastModified(location string) (time.Time, error) {
	info, err := os.Stat(location)
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", location)
	}
	return info.ModTime(), nil
}
