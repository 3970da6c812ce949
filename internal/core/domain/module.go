package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

const (
	// ModuleSeparator joins module names in a compound expression.
	ModuleSeparator = '+'

	// ModuleExclusion prefixes module names subtracted from a compound expression.
	ModuleExclusion = '!'

	// VariantDelimiter separates the levels of a variant tag.
	VariantDelimiter = ":"

	// DefaultVariant is selected when no variant tag matches the request.
	DefaultVariant = "lead"
)

// Module is a named, addressable bundle of files plus its dependencies.
type Module struct {
	name         string
	files        []File
	dependencies []*Module
	source       Source
}

// NewModule creates an empty module.
// It returns an error if the name is empty or contains a reserved character.
func NewModule(name string, source Source) (*Module, error) {
	if err := ValidateModuleName(name); err != nil {
		return nil, err
	}
	return &Module{name: name, source: source}, nil
}

// ValidateModuleName checks that a name can be addressed in a module expression.
func ValidateModuleName(name string) error {
	if name == "" || strings.ContainsAny(name, "+!/") {
		return zerr.With(zerr.Wrap(ErrInvalidModuleName, "validate module name"), "module", name)
	}
	return nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Source returns the artifact descriptor of the module.
func (m *Module) Source() Source {
	return m.source
}

// Files returns the declared files in order. The slice must not be modified.
func (m *Module) Files() []File {
	return m.files
}

// Dependencies returns the declared dependencies in order. The slice must not be modified.
func (m *Module) Dependencies() []*Module {
	return m.dependencies
}

// AddFile appends a file to the module.
// It returns an error if a file with the same type and variant already exists.
func (m *Module) AddFile(f File) error {
	for _, existing := range m.files {
		if existing.Type == f.Type && existing.Variant == f.Variant {
			err := zerr.With(zerr.Wrap(ErrDuplicateFile, "add file"), "module", m.name)
			err = zerr.With(err, "type", string(f.Type))
			return zerr.With(err, "variant", f.Variant)
		}
	}
	m.files = append(m.files, f)
	return nil
}

func (m *Module) addDependency(dep *Module) {
	m.dependencies = append(m.dependencies, dep)
}

// Resolve returns the files to serve for the given type and requested variant.
// Default files come first, followed by the files of the best matching variant tag.
func (m *Module) Resolve(typ ContentType, variant string) []File {
	var result []File
	variantSeen := false

	for _, f := range m.files {
		if f.Type != typ {
			continue
		}
		if f.Variant == "" {
			result = append(result, f)
		} else {
			variantSeen = true
		}
	}

	if !variantSeen {
		return result
	}

	best := m.BestVariant(typ, variant)
	for _, f := range m.files {
		if f.Type == typ && f.Variant == best {
			result = append(result, f)
		}
	}
	return result
}

// BestVariant returns the longest tag of the given type that is a prefix of the
// requested variant at a delimiter boundary, or DefaultVariant if none matches.
func (m *Module) BestVariant(typ ContentType, variant string) string {
	requested := variant + VariantDelimiter
	best := ""

	for _, f := range m.files {
		if f.Type != typ || f.Variant == "" {
			continue
		}
		if strings.HasPrefix(requested, f.Variant+VariantDelimiter) && len(f.Variant) > len(best) {
			best = f.Variant
		}
	}

	if best == "" {
		return DefaultVariant
	}
	return best
}

// String returns the module name.
func (m *Module) String() string {
	return m.name
}
