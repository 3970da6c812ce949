package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/zerr"
)

func newModule(t *testing.T, name string, files ...domain.File) *domain.Module {
	t.Helper()
	m, err := domain.NewModule(name, domain.Source{})
	require.NoError(t, err)
	for _, f := range files {
		require.NoError(t, m.AddFile(f))
	}
	return m
}

func normals(files []domain.File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Normal)
	}
	return out
}

func TestValidateModuleName(t *testing.T) {
	for _, name := range []string{"", "a+b", "a!b", "a/b"} {
		err := domain.ValidateModuleName(name)
		require.ErrorIs(t, err, domain.ErrInvalidModuleName, "name %q", name)
	}
	require.NoError(t, domain.ValidateModuleName("jquery-ui.core"))
}

func TestModule_AddFile_Duplicate(t *testing.T) {
	m := newModule(t, "widgets", domain.File{Type: domain.TypeJS, Normal: "a.js", Variant: "ie"})

	err := m.AddFile(domain.File{Type: domain.TypeJS, Normal: "b.js", Variant: "ie"})
	require.ErrorIs(t, err, domain.ErrDuplicateFile)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, "widgets", meta["module"])
	assert.Equal(t, "js", meta["type"])
	assert.Equal(t, "ie", meta["variant"])

	// Same variant, different type is fine.
	require.NoError(t, m.AddFile(domain.File{Type: domain.TypeCSS, Normal: "a.css", Variant: "ie"}))
}

func TestModule_BestVariant(t *testing.T) {
	m := newModule(t, "widgets",
		domain.File{Type: domain.TypeJS, Normal: "ie.js", Variant: "ie"},
		domain.File{Type: domain.TypeJS, Normal: "ie7.js", Variant: "ie:7"},
		domain.File{Type: domain.TypeJS, Normal: "ie7win.js", Variant: "ie:7:win"},
		domain.File{Type: domain.TypeCSS, Normal: "moz.css", Variant: "moz"},
	)

	tests := []struct {
		requested string
		want      string
	}{
		{"ie:7:win:sp2", "ie:7:win"},
		{"ie:7:win", "ie:7:win"},
		{"ie:7", "ie:7"},
		{"ie:6", "ie"},
		{"ie", "ie"},
		{"ie7", domain.DefaultVariant},
		{"moz", domain.DefaultVariant},
		{"", domain.DefaultVariant},
		{domain.DefaultVariant, domain.DefaultVariant},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			assert.Equal(t, tt.want, m.BestVariant(domain.TypeJS, tt.requested))
		})
	}
}

func TestModule_Resolve(t *testing.T) {
	m := newModule(t, "widgets",
		domain.File{Type: domain.TypeJS, Normal: "base.js"},
		domain.File{Type: domain.TypeJS, Normal: "lead.js", Variant: "lead"},
		domain.File{Type: domain.TypeJS, Normal: "ie.js", Variant: "ie"},
		domain.File{Type: domain.TypeJS, Normal: "ie7.js", Variant: "ie:7"},
		domain.File{Type: domain.TypeCSS, Normal: "base.css"},
	)

	tests := []struct {
		name    string
		typ     domain.ContentType
		variant string
		want    []string
	}{
		{"defaults first then exact tag", domain.TypeJS, "ie:7", []string{"base.js", "ie7.js"}},
		{"prefix at delimiter", domain.TypeJS, "ie:6", []string{"base.js", "ie.js"}},
		{"fallback to lead", domain.TypeJS, "opera", []string{"base.js", "lead.js"}},
		{"no tagged files of type", domain.TypeCSS, "ie:7", []string{"base.css"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normals(m.Resolve(tt.typ, tt.variant)))
		})
	}
}

func TestModule_Resolve_NoLeadFile(t *testing.T) {
	m := newModule(t, "widgets",
		domain.File{Type: domain.TypeJS, Normal: "base.js"},
		domain.File{Type: domain.TypeJS, Normal: "ie.js", Variant: "ie"},
	)

	assert.Equal(t, []string{"base.js"}, normals(m.Resolve(domain.TypeJS, "moz")))
}

func TestFile_Location(t *testing.T) {
	f := domain.File{Type: domain.TypeJS, Normal: "a.js", Minimized: "a.min.js"}
	assert.Equal(t, "a.js", f.Location(false))
	assert.Equal(t, "a.min.js", f.Location(true))
	assert.Equal(t, []string{"a.js", "a.min.js"}, f.Locations())

	plain := domain.File{Type: domain.TypeJS, Normal: "b.js"}
	assert.Equal(t, "b.js", plain.Location(true))
	assert.Equal(t, []string{"b.js"}, plain.Locations())
}

func TestParseContentType(t *testing.T) {
	typ, err := domain.ParseContentType("css")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeCSS, typ)
	assert.Equal(t, "text/css; charset=utf-8", typ.MIME())

	_, err = domain.ParseContentType("html")
	require.ErrorIs(t, err, domain.ErrUnknownContentType)
}

func TestSource_String(t *testing.T) {
	assert.Empty(t, domain.Source{}.String())
	assert.Equal(t, "org.example:widgets:1.2", domain.Source{
		GroupID:    "org.example",
		ArtifactID: "widgets",
		Version:    "1.2",
	}.String())
}
