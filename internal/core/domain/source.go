package domain

// Source describes where the artifact that contributed a module comes from.
type Source struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
	SCM        string `json:"scm"`
}

// String returns the Maven-style coordinates of the source.
func (s Source) String() string {
	if s.GroupID == "" && s.ArtifactID == "" {
		return ""
	}
	return s.GroupID + ":" + s.ArtifactID + ":" + s.Version
}
