package domain

// ModuleSummary is one entry of the repository listing.
type ModuleSummary struct {
	Name         string   `json:"name"`
	Dependencies []string `json:"dependencies"`
	Details      string   `json:"details"`
}

// ModuleDetail describes one module.
type ModuleDetail struct {
	Name         string       `json:"name"`
	Files        []FileDetail `json:"files"`
	Dependencies []string     `json:"dependencies"`
	Source       Source       `json:"source"`
}

// FileDetail describes one file of a module.
type FileDetail struct {
	Type      ContentType `json:"type"`
	Normal    string      `json:"normal"`
	Minimized string      `json:"minimized,omitempty"`
	Variant   string      `json:"variant"`
}

// Summarize lists every module of r sorted by name.
func (r *Repository) Summarize() []ModuleSummary {
	result := make([]ModuleSummary, 0, r.Len())
	for m := range r.Modules() {
		result = append(result, ModuleSummary{
			Name:         m.Name(),
			Dependencies: m.DependencyNames(),
			Details:      AdminPrefix + "module/" + m.Name(),
		})
	}
	return result
}

// Describe returns the details of m.
func (m *Module) Describe() ModuleDetail {
	files := make([]FileDetail, 0, len(m.files))
	for _, f := range m.files {
		files = append(files, FileDetail{
			Type:      f.Type,
			Normal:    f.Normal,
			Minimized: f.Minimized,
			Variant:   f.Variant,
		})
	}
	return ModuleDetail{
		Name:         m.name,
		Files:        files,
		Dependencies: m.DependencyNames(),
		Source:       m.source,
	}
}

// DependencyNames returns the names of the direct dependencies in link order.
func (m *Module) DependencyNames() []string {
	names := make([]string, 0, len(m.dependencies))
	for _, dep := range m.dependencies {
		names = append(names, dep.name)
	}
	return names
}
