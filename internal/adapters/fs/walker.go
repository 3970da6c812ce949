// Package fs provides file system adapters for reading, walking and hashing asset files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/zerr"
)

// Walker finds asset files below a document root.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkAssets yields the paths of all files below root whose extension names a
// content type. Hidden directories and paths matching one of the ignore globs
// (doublestar syntax, relative to root) are skipped.
func (w *Walker) WalkAssets(root string, ignore ...string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable directories are skipped, the walk goes on.
				return nil //nolint:nilerr // Intentional
			}

			if path != root && ignored(root, path, ignore) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}

			if !isAsset(d.Name()) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func isAsset(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	_, err := domain.ParseContentType(ext)
	return err == nil
}

func ignored(root, path string, patterns []string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		// Invalid patterns never match; ValidatePattern reports them up front.
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ValidatePattern checks that pattern is a valid ignore glob.
func ValidatePattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidPattern, "validate ignore pattern"), "pattern", pattern)
	}
	return nil
}
