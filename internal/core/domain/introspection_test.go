package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jasmin/internal/core/domain"
)

func TestRepository_Summarize(t *testing.T) {
	r := buildRepository(t, map[string][]string{
		"app":  {"base", "util"},
		"base": nil,
		"util": {"base"},
	})

	got := r.Summarize()
	require.Len(t, got, 3)
	assert.Equal(t, domain.ModuleSummary{
		Name:         "app",
		Dependencies: []string{"base", "util"},
		Details:      "/admin/module/app",
	}, got[0])
	assert.Equal(t, "base", got[1].Name)
	assert.Empty(t, got[1].Dependencies)
	assert.Equal(t, []string{"base"}, got[2].Dependencies)
}

func TestModule_Describe(t *testing.T) {
	m, err := domain.NewModule("jquery", domain.Source{GroupID: "org.jquery", ArtifactID: "jquery", Version: "1.4"})
	require.NoError(t, err)
	require.NoError(t, m.AddFile(domain.File{Type: domain.TypeJS, Normal: "/srv/jquery.js", Minimized: "/srv/jquery.min.js"}))
	require.NoError(t, m.AddFile(domain.File{Type: domain.TypeCSS, Normal: "/srv/jquery.css", Variant: "ie"}))

	got := m.Describe()
	assert.Equal(t, "jquery", got.Name)
	assert.Equal(t, "1.4", got.Source.Version)
	assert.Empty(t, got.Dependencies)
	assert.Equal(t, []domain.FileDetail{
		{Type: domain.TypeJS, Normal: "/srv/jquery.js", Minimized: "/srv/jquery.min.js"},
		{Type: domain.TypeCSS, Normal: "/srv/jquery.css", Variant: "ie"},
	}, got.Files)
}
