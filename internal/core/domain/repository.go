// Package domain contains the core domain models of the asset module repository.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Repository is the loaded graph of all modules.
// It is built once, sealed by Validate and read-only afterwards.
type Repository struct {
	modules map[string]*Module
	names   []string
	sealed  bool
}

// NewRepository creates a new empty Repository.
func NewRepository() *Repository {
	return &Repository{
		modules: make(map[string]*Module),
	}
}

// Add adds a module to the repository.
// It returns an error if a module with the same name already exists.
func (r *Repository) Add(m *Module) error {
	if r.sealed {
		return zerr.With(zerr.Wrap(ErrRepositorySealed, "add module"), "module", m.Name())
	}
	if _, exists := r.modules[m.Name()]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateModule, "add module"), "module", m.Name())
	}
	r.modules[m.Name()] = m
	r.names = append(r.names, m.Name())
	return nil
}

// Link records that module from depends on module to.
// Dependencies keep the order in which they are linked.
func (r *Repository) Link(from, to string) error {
	if r.sealed {
		return zerr.With(zerr.Wrap(ErrRepositorySealed, "link module"), "module", from)
	}
	src, ok := r.modules[from]
	if !ok {
		return zerr.With(zerr.Wrap(ErrModuleNotFound, "link module"), "module", from)
	}
	dst, ok := r.modules[to]
	if !ok {
		err := zerr.With(zerr.Wrap(ErrUnknownDependency, "link module"), "module", from)
		return zerr.With(err, "dependency", to)
	}
	src.addDependency(dst)
	return nil
}

// Validate checks the dependency graph for cycles and seals the repository.
func (r *Repository) Validate() error {
	slices.Sort(r.names)

	state := make(map[string]int, len(r.modules)) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(m *Module) error
	visit = func(m *Module) error {
		state[m.name] = 1
		path = append(path, m.name)

		for _, dep := range m.dependencies {
			switch state[dep.name] {
			case 1:
				return buildCycleError(path, dep.name)
			case 0:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[m.name] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, name := range r.names {
		if state[name] == 0 {
			if err := visit(r.modules[name]); err != nil {
				return err
			}
		}
	}

	r.sealed = true
	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := strings.Join(append(slices.Clone(path[start:]), dep), " -> ")
	return zerr.With(zerr.Wrap(ErrCycleDetected, "validate repository"), "cycle", cycle)
}

// Lookup returns the module with the given name.
func (r *Repository) Lookup(name string) (*Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// Len returns the number of modules.
func (r *Repository) Len() int {
	return len(r.modules)
}

// Modules yields all modules sorted by name.
func (r *Repository) Modules() iter.Seq[*Module] {
	return func(yield func(*Module) bool) {
		for _, name := range r.names {
			if !yield(r.modules[name]) {
				return
			}
		}
	}
}

// Resolve evaluates a compound module expression.
// The result holds the transitive closures of the included modules in
// dependency-first order, minus the closures of the excluded modules.
func (r *Repository) Resolve(expression string) ([]*Module, error) {
	expr, err := ParseExpression(expression)
	if err != nil {
		return nil, err
	}

	excluded := make(map[*Module]bool)
	for _, name := range expr.Excludes {
		m, err := r.lookupRequired(name)
		if err != nil {
			return nil, err
		}
		for dep := range closure(m, make(map[*Module]bool)) {
			excluded[dep] = true
		}
	}

	seen := make(map[*Module]bool)
	var result []*Module
	for _, name := range expr.Includes {
		m, err := r.lookupRequired(name)
		if err != nil {
			return nil, err
		}
		for dep := range closure(m, seen) {
			if !excluded[dep] {
				result = append(result, dep)
			}
		}
	}
	return result, nil
}

// Files resolves the request's module expression and returns the files to
// serve in order. A location appears at most once.
func (r *Repository) Files(req Request) ([]File, error) {
	modules, err := r.Resolve(req.Expression)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var result []File
	for _, m := range modules {
		for _, f := range m.Resolve(req.Type, req.Variant) {
			if seen[f.Normal] {
				continue
			}
			seen[f.Normal] = true
			result = append(result, f)
		}
	}
	return result, nil
}

func (r *Repository) lookupRequired(name string) (*Module, error) {
	m, ok := r.modules[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrModuleNotFound, "resolve expression"), "module", name)
	}
	return m, nil
}

// closure yields m and its transitive dependencies, dependencies first.
// Modules already in seen are skipped; yielded modules are added to seen.
func closure(m *Module, seen map[*Module]bool) iter.Seq[*Module] {
	return func(yield func(*Module) bool) {
		var walk func(m *Module) bool
		walk = func(m *Module) bool {
			if seen[m] {
				return true
			}
			seen[m] = true
			for _, dep := range m.dependencies {
				if !walk(dep) {
					return false
				}
			}
			return yield(m)
		}
		walk(m)
	}
}
