package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
core:
  url: https://prod.example
errors:
  404: custom/missing
`), 0o600))

	settings, err := LoadSeedFile(path)
	require.NoError(t, err)

	v, ok := settings.String("core.url")
	assert.True(t, ok)
	assert.Equal(t, "https://prod.example", v)
	assert.Equal(t, "custom/missing", settings.ErrorTemplates()["404"])
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrMissingConfiguration)
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("core: [unterminated"), 0o600))

	_, err := LoadSeedFile(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingConfiguration)
}
