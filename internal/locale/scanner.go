// Package locale discovers the locales a site ships translations for and
// negotiates the best match for a request.
package locale

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultLocale is always reported as available
const DefaultLocale = "en"

// Scanner lists the locales present in a translation directory.
//
// File names follow "domain.locale.ext" (e.g. messages.fr.yaml); the locale is
// the second-to-last dot segment. The listing is computed on first use and kept
// for the lifetime of the Scanner. Create a new Scanner to observe changes on disk.
type Scanner struct {
	fsys   fs.FS
	dir    string
	logger *zap.Logger

	mu      sync.Mutex
	locales []string
}

// NewScanner creates a scanner over dir inside fsys
func NewScanner(fsys fs.FS, dir string, logger *zap.Logger) *Scanner {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		fsys:   fsys,
		dir:    dir,
		logger: logger.Named("locale"),
	}
}

// NewDirScanner creates a scanner over a directory on the local filesystem
func NewDirScanner(dir string, logger *zap.Logger) *Scanner {
	return NewScanner(os.DirFS(dir), ".", logger)
}

// Available returns the sorted, deduplicated locale codes.
// The result always contains DefaultLocale.
func (s *Scanner) Available() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locales == nil {
		s.locales = s.scan()
	}
	out := make([]string, len(s.locales))
	copy(out, s.locales)
	return out
}

// Has reports whether code is one of the available locales
func (s *Scanner) Has(code string) bool {
	for _, l := range s.Available() {
		if l == code {
			return true
		}
	}
	return false
}

func (s *Scanner) scan() []string {
	seen := map[string]struct{}{DefaultLocale: {}}

	info, err := fs.Stat(s.fsys, s.dir)
	if err != nil || !info.IsDir() {
		return sortedKeys(seen)
	}

	entries, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		s.logger.Debug("Translation directory unreadable", zap.String("dir", s.dir), zap.Error(err))
		return sortedKeys(seen)
	}

	for _, entry := range entries {
		// Stat follows symlinks, so linked translation files still count
		fi, err := fs.Stat(s.fsys, path.Join(s.dir, entry.Name()))
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		code, ok := FromFileName(entry.Name())
		if !ok {
			continue
		}
		seen[code] = struct{}{}
	}

	return sortedKeys(seen)
}

// FromFileName extracts the locale from a "domain.locale.ext" file name.
// Names with fewer than three dot segments or an empty locale segment yield false.
func FromFileName(name string) (string, bool) {
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return "", false
	}
	code := parts[len(parts)-2]
	if code == "" {
		return "", false
	}
	return code, true
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
