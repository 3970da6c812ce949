// Package config provides the configuration loader for jasmin.
package config

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// SupportedVersion is the config file version this loader understands.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the local file system.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// Load reads the config file at path and builds the sealed module repository.
func (l *Loader) Load(path string) (*domain.Application, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "read config"), "path", path)
	}

	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "read config"), "path", path)
	}

	var file Jasminfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, err), "parse config"), "path", path)
	}
	if file.Version != "" && file.Version != SupportedVersion && l.Logger != nil {
		l.Logger.Warn("config " + path + " declares version " + file.Version + ", expected " + SupportedVersion)
	}

	settings := l.settings(&file, filepath.Dir(path))

	repo, err := l.buildRepository(&file, settings.Root)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return &domain.Application{
		Repository: repo,
		Settings:   settings,
		ConfigPath: path,
	}, nil
}

// Discover walks up from dir and returns the path of the nearest config file.
func (l *Loader) Discover(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "discover config"), "path", dir)
	}

	for {
		candidate := domain.DefaultConfigPath(current)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, "no "+domain.ConfigFileName+" found"), "path", dir)
		}
		current = parent
	}
}

func (l *Loader) settings(file *Jasminfile, configDir string) domain.Settings {
	settings := domain.DefaultSettings()
	settings.Root = resolvePath(configDir, file.Root)
	settings.Live = file.Live

	if file.Expires > 0 {
		settings.Expires = time.Duration(file.Expires) * time.Second
	}
	if file.HashCacheSize > 0 {
		settings.HashCacheSize = file.HashCacheSize
	}
	if file.ContentCacheSize > 0 {
		settings.ContentCacheSize = file.ContentCacheSize
	}
	return settings
}

func (l *Loader) buildRepository(file *Jasminfile, root string) (*domain.Repository, error) {
	repo := domain.NewRepository()

	names := make([]string, 0, len(file.Modules))
	for name := range file.Modules {
		names = append(names, name)
	}
	slices.Sort(names)

	// First pass: create modules with their files.
	for _, name := range names {
		m, err := l.buildModule(name, file.Modules[name], root)
		if err != nil {
			return nil, err
		}
		if err := repo.Add(m); err != nil {
			return nil, err
		}
	}

	// Second pass: link dependencies now that every name is known.
	for _, name := range names {
		dto := file.Modules[name]
		if dto == nil {
			continue
		}
		for _, dep := range dto.Dependencies {
			if err := repo.Link(name, dep); err != nil {
				return nil, err
			}
		}
	}

	if err := repo.Validate(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (l *Loader) buildModule(name string, dto *ModuleDTO, root string) (*domain.Module, error) {
	if dto == nil {
		dto = &ModuleDTO{}
	}

	m, err := domain.NewModule(name, domain.Source{
		GroupID:    dto.Source.GroupID,
		ArtifactID: dto.Source.ArtifactID,
		Version:    dto.Source.Version,
		SCM:        dto.Source.SCM,
	})
	if err != nil {
		return nil, err
	}

	for i, f := range dto.Files {
		typ, err := domain.ParseContentType(f.Type)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "module", name), "file_index", i)
		}
		if strings.TrimSpace(f.Normal) == "" {
			err := zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "file has no normal location"), "module", name)
			return nil, zerr.With(err, "file_index", i)
		}

		file := domain.File{
			Type:    typ,
			Normal:  resolvePath(root, f.Normal),
			Variant: f.Variant,
		}
		if f.Minimized != "" {
			file.Minimized = resolvePath(root, f.Minimized)
		}
		if err := m.AddFile(file); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// resolvePath joins a relative location to base. Absolute locations are cleaned only.
func resolvePath(base, location string) string {
	location = filepath.FromSlash(location)
	if filepath.IsAbs(location) {
		return filepath.Clean(location)
	}
	return filepath.Join(base, location)
}
