package ports

import "go.trai.ch/jasmin/internal/core/domain"

// ConfigLoader defines the interface for loading the module repository.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the config file at path and returns the sealed repository with its settings.
	Load(path string) (*domain.Application, error)

	// Discover walks up from dir to find the nearest config file.
	Discover(dir string) (string, error)
}
