package domain

// File is one physical asset of a module.
// Normal is always set; Minimized is an optional pre-built alternate.
// An empty Variant marks the default representation for the content type.
type File struct {
	Type      ContentType
	Normal    string
	Minimized string
	Variant   string
}

// Location returns the representation to serve.
// The minimized location is used only when requested and available.
func (f File) Location(minimize bool) string {
	if minimize && f.Minimized != "" {
		return f.Minimized
	}
	return f.Normal
}

// Locations returns every location the file refers to.
func (f File) Locations() []string {
	if f.Minimized == "" {
		return []string{f.Normal}
	}
	return []string{f.Normal, f.Minimized}
}
