package locale

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScanner_MissingDirectory(t *testing.T) {
	s := NewDirScanner(filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())
	assert.Equal(t, []string{"en"}, s.Available())
}

func TestScanner_EmptyDirectory(t *testing.T) {
	s := NewDirScanner(t.TempDir(), zap.NewNop())
	assert.Equal(t, []string{"en"}, s.Available())
}

// unlistableFS stats fine but refuses to list directories
type unlistableFS struct {
	fstest.MapFS
}

func (u unlistableFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrPermission}
}

func TestScanner_UnreadableDirectory(t *testing.T) {
	fsys := unlistableFS{fstest.MapFS{
		"translations/messages.fr.yaml": {Data: []byte("{}")},
	}}

	_, err := fs.ReadDir(fsys, "translations")
	require.True(t, errors.Is(err, fs.ErrPermission))

	s := NewScanner(fsys, "translations", zap.NewNop())
	assert.Equal(t, []string{"en"}, s.Available())
}

func TestScanner_UnreadableDirectoryOnDisk(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.fr.yaml"), []byte("{}"), 0o600))
	require.NoError(t, os.Chmod(dir, 0o000))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	s := NewDirScanner(dir, zap.NewNop())
	assert.Equal(t, []string{"en"}, s.Available())
}

func TestScanner_CollectsSortedUniqueLocales(t *testing.T) {
	fsys := fstest.MapFS{
		"translations/messages.fr.yaml":   {Data: []byte("hello: bonjour")},
		"translations/validators.fr.yaml": {Data: []byte("{}")},
		"translations/messages.de.yaml":   {Data: []byte("{}")},
		"translations/messages.en.yaml":   {Data: []byte("{}")},
		"translations/weird.yaml":         {Data: []byte("{}")},
		"translations/README":             {Data: []byte("docs")},
		"translations/empty..yaml":        {Data: []byte("{}")},
		"translations/nested/app.it.yaml": {Data: []byte("{}")},
	}

	s := NewScanner(fsys, "translations", zap.NewNop())
	assert.Equal(t, []string{"de", "en", "fr"}, s.Available())
}

func TestScanner_SkipsDirectoriesNamedLikeFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"messages.es.yaml/inner.txt": {Data: []byte("x")},
		"messages.nl.yaml":           {Data: []byte("{}")},
	}

	s := NewScanner(fsys, ".", zap.NewNop())
	assert.Equal(t, []string{"en", "nl"}, s.Available())
}

func TestScanner_IsMemoized(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.fr.yaml"), []byte("{}"), 0o600))

	s := NewDirScanner(dir, zap.NewNop())
	assert.Equal(t, []string{"en", "fr"}, s.Available())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.ja.yaml"), []byte("{}"), 0o600))
	assert.Equal(t, []string{"en", "fr"}, s.Available(), "cached listing is kept")

	fresh := NewDirScanner(dir, zap.NewNop())
	assert.Equal(t, []string{"en", "fr", "ja"}, fresh.Available())
}

func TestScanner_ReturnsCopy(t *testing.T) {
	s := NewScanner(fstest.MapFS{"messages.fr.yaml": {}}, ".", zap.NewNop())

	first := s.Available()
	first[0] = "mutated"
	assert.Equal(t, []string{"en", "fr"}, s.Available())
}

func TestScanner_FollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "shared.pl.yaml")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o600))
	if err := os.Symlink(target, filepath.Join(dir, "messages.pl.yaml")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	s := NewDirScanner(dir, zap.NewNop())
	assert.Equal(t, []string{"en", "pl"}, s.Available())
}

func TestScanner_Has(t *testing.T) {
	s := NewScanner(fstest.MapFS{"messages.fr.yaml": {}}, ".", zap.NewNop())
	assert.True(t, s.Has("en"))
	assert.True(t, s.Has("fr"))
	assert.False(t, s.Has("de"))
}

func TestFromFileName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"messages.fr.yaml", "fr", true},
		{"messages.pt_BR.xlf", "pt_BR", true},
		{"app.admin.de.yaml", "de", true},
		{"weird.yaml", "", false},
		{"noext", "", false},
		{"messages..yaml", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromFileName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
