package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestProjectSettings_Lookup(t *testing.T) {
	settings := ProjectSettings{
		"core": map[string]any{
			"url":  "https://prod.example",
			"name": "Example",
		},
		"errors": map[string]any{"404": "custom/missing"},
		"flat":   "value",
	}

	tests := []struct {
		name   string
		key    string
		want   any
		wantOK bool
	}{
		{"nested string", "core.url", "https://prod.example", true},
		{"top-level value", "flat", "value", true},
		{"subtree", "errors", map[string]any{"404": "custom/missing"}, true},
		{"missing leaf", "core.missing", nil, false},
		{"missing root", "nope.url", nil, false},
		{"through scalar", "flat.child", nil, false},
		{"empty key", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := settings.Lookup(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectSettings_LookupNil(t *testing.T) {
	var settings ProjectSettings
	_, ok := settings.Lookup("core.url")
	assert.False(t, ok)
}

func TestProjectSettings_String(t *testing.T) {
	settings := ProjectSettings{"core": map[string]any{"url": "https://a.example", "port": 8080}}

	v, ok := settings.String("core.url")
	assert.True(t, ok)
	assert.Equal(t, "https://a.example", v)

	_, ok = settings.String("core.port")
	assert.False(t, ok, "non-string values are not strings")
}

func TestProjectSettings_SetAndDelete(t *testing.T) {
	settings := ProjectSettings{"core": "scalar"}

	require.NoError(t, settings.Set("core.url", "https://a.example"))
	v, ok := settings.String("core.url")
	require.True(t, ok)
	assert.Equal(t, "https://a.example", v)

	require.NoError(t, settings.Set("errors.404", "custom/missing"))
	assert.Equal(t, ErrorTemplateMapping{"404": "custom/missing"}, settings.ErrorTemplates())

	assert.True(t, settings.Delete("errors.404"))
	assert.False(t, settings.Delete("errors.404"))
	assert.False(t, settings.Delete("nope.key"))
	assert.Empty(t, settings.ErrorTemplates())

	assert.Error(t, settings.Set("", "x"))
	assert.Error(t, settings.Set("core..url", "x"))
}

func TestProjectSettings_ErrorTemplatesIgnoresNonStrings(t *testing.T) {
	settings := ProjectSettings{
		"errors": map[string]any{
			"404": "custom/missing",
			"500": 42,
			"503": map[string]any{"nested": "x"},
		},
	}

	assert.Equal(t, ErrorTemplateMapping{"404": "custom/missing"}, settings.ErrorTemplates())
	assert.Empty(t, ProjectSettings{"errors": "oops"}.ErrorTemplates())
	assert.Empty(t, ProjectSettings{}.ErrorTemplates())
}

func TestNewProjectSettings_NormalizesYAMLKeys(t *testing.T) {
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(`
core:
  url: https://prod.example
errors:
  404: custom/missing
  500: /oops.html.tmpl
`), &raw))

	settings := NewProjectSettings(raw)

	v, ok := settings.String("errors.404")
	require.True(t, ok)
	assert.Equal(t, "custom/missing", v)
	assert.Equal(t, ErrorTemplateMapping{
		"404": "custom/missing",
		"500": "/oops.html.tmpl",
	}, settings.ErrorTemplates())
}

func TestProjectSettings_CloneIsDeep(t *testing.T) {
	settings := ProjectSettings{"core": map[string]any{"url": "https://a.example"}}
	clone := settings.Clone()

	require.NoError(t, clone.Set("core.url", "https://b.example"))

	v, _ := settings.String("core.url")
	assert.Equal(t, "https://a.example", v)
}

func TestValidateProjectID(t *testing.T) {
	tests := []struct {
		name    string
		id      ProjectID
		wantErr bool
	}{
		{"default", DefaultProjectID, false},
		{"with hyphen", "my-site", false},
		{"with underscore", "my_site2", false},
		{"empty", "", true},
		{"uppercase", "MySite", true},
		{"contains dot", "my.site", true},
		{"leading hyphen", "-site", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
