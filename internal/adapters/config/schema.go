package config

// Jasminfile represents the structure of the jasmin.yaml configuration file.
type Jasminfile struct {
	Version string `yaml:"version"`
	// Root is the document root, relative to the config file directory.
	Root string `yaml:"root"`
	Live bool   `yaml:"live"`
	// Expires is the client cache lifetime in seconds.
	Expires          int                   `yaml:"expires"`
	HashCacheSize    int                   `yaml:"hashCacheSize"`
	ContentCacheSize int64                 `yaml:"contentCacheSize"`
	Modules          map[string]*ModuleDTO `yaml:"modules"`
}

// ModuleDTO represents a module definition in the configuration.
type ModuleDTO struct {
	Source       SourceDTO `yaml:"source"`
	Files        []FileDTO `yaml:"files"`
	Dependencies []string  `yaml:"dependencies"`
}

// SourceDTO describes the artifact a module comes from.
type SourceDTO struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	Version    string `yaml:"version"`
	SCM        string `yaml:"scm"`
}

// FileDTO represents one file of a module.
type FileDTO struct {
	Type      string `yaml:"type"`
	Normal    string `yaml:"normal"`
	Minimized string `yaml:"minimized"`
	Variant   string `yaml:"variant"`
}
