// Package theme resolves template names against the active theme and the
// base template directory, in that order.
package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Root is one place templates are looked up in
type Root struct {
	Name string
	FS   fs.FS
}

// Loader looks up templates across an ordered list of roots.
// The first root holding a regular file with the requested name wins.
type Loader struct {
	roots  []Root
	logger *zap.Logger
}

// NewLoader creates a loader over the given roots
func NewLoader(logger *zap.Logger, roots ...Root) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{roots: roots, logger: logger.Named("theme")}
}

// NewDirLoader builds the usual lookup chain: themesDir/<theme> (when a theme is
// set and its directory exists) followed by templatesDir.
func NewDirLoader(templatesDir, themesDir, themeName string, logger *zap.Logger) *Loader {
	var roots []Root
	if themeName != "" && themesDir != "" {
		dir := filepath.Join(themesDir, themeName)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, Root{Name: "theme:" + themeName, FS: os.DirFS(dir)})
		} else if logger != nil {
			logger.Warn("Theme directory not found, using base templates only",
				zap.String("theme", themeName), zap.String("dir", dir))
		}
	}
	if templatesDir != "" {
		roots = append(roots, Root{Name: "templates", FS: os.DirFS(templatesDir)})
	}
	return NewLoader(logger, roots...)
}

// Exists reports whether any root can serve the named template
func (l *Loader) Exists(name string) bool {
	_, ok := l.find(name)
	return ok
}

// Read returns the template source from the first root that has it
func (l *Loader) Read(name string) ([]byte, error) {
	root, ok := l.find(name)
	if !ok {
		return nil, fmt.Errorf("template %q: %w", name, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(root.FS, clean(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read template %q from %s: %w", name, root.Name, err)
	}
	return data, nil
}

// Roots returns the lookup chain names, highest priority first
func (l *Loader) Roots() []string {
	names := make([]string, len(l.roots))
	for i, r := range l.roots {
		names[i] = r.Name
	}
	return names
}

func (l *Loader) find(name string) (Root, bool) {
	p := clean(name)
	if !fs.ValidPath(p) || p == "." {
		return Root{}, false
	}
	for _, root := range l.roots {
		info, err := fs.Stat(root.FS, p)
		if err == nil && info.Mode().IsRegular() {
			return root, true
		}
	}
	return Root{}, false
}

func clean(name string) string {
	return path.Clean(strings.TrimPrefix(name, "/"))
}
