package ports

import "go.trai.ch/jasmin/internal/core/domain"

// Hasher defines the interface for computing cache keys.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// Identity computes the resolution identity of a request: the resolved
	// files plus every request attribute that changes the built bytes.
	Identity(files []domain.File, req domain.Request) string

	// ContentKey computes the key of built content.
	ContentKey(data []byte) string
}
