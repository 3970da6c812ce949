// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"time"
)

// Storage reads the physical files referenced by the repository.
// Locations are absolute paths produced by the config loader.
//
//go:generate mockgen -source=storage.go -destination=mocks/mock_storage.go -package=mocks
type Storage interface {
	// Read returns the full content at location.
	Read(ctx context.Context, location string) ([]byte, error)

	// LastModified returns the modification time of location.
	LastModified(location string) (time.Time, error)
}
