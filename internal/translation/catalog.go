// Package translation loads the site's message catalogue with go-i18n.
package translation

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Catalog holds every message file found in a translation directory.
// File names follow "domain.locale.ext"; json, yaml, yml and toml are understood.
type Catalog struct {
	bundle *i18n.Bundle
	logger *zap.Logger
	files  []string
}

// Formats lists the file extensions the catalogue can parse
var Formats = []string{"json", "toml", "yaml", "yml"}

// NewCatalog loads message files from dir inside fsys.
// A missing or unreadable directory yields an empty catalogue; unparsable files are skipped.
func NewCatalog(fsys fs.FS, dir string, logger *zap.Logger) *Catalog {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)

	c := &Catalog{
		bundle: bundle,
		logger: logger.Named("translation"),
	}
	c.load(fsys, dir)
	return c
}

// NewDirCatalog loads message files from a directory on the local filesystem
func NewDirCatalog(dir string, logger *zap.Logger) *Catalog {
	return NewCatalog(os.DirFS(dir), ".", logger)
}

func (c *Catalog) load(fsys fs.FS, dir string) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		c.logger.Debug("Translation directory not readable", zap.String("dir", dir), zap.Error(err))
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !supported(name) {
			continue
		}
		full := path.Join(dir, name)
		info, err := fs.Stat(fsys, full)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		data, err := fs.ReadFile(fsys, full)
		if err != nil {
			c.logger.Warn("Failed to read translation file", zap.String("file", name), zap.Error(err))
			continue
		}
		if _, err := c.bundle.ParseMessageFileBytes(data, name); err != nil {
			c.logger.Warn("Skipping translation file", zap.String("file", name), zap.Error(err))
			continue
		}
		c.files = append(c.files, name)
	}
	sort.Strings(c.files)
}

func supported(name string) bool {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	for _, format := range Formats {
		if ext == format {
			return true
		}
	}
	return false
}

// Files returns the names of the message files that were loaded
func (c *Catalog) Files() []string {
	out := make([]string, len(c.files))
	copy(out, c.files)
	return out
}

// Languages returns the language tags that have at least one message
func (c *Catalog) Languages() []string {
	tags := c.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	sort.Strings(out)
	return out
}

// Translate localizes messageID for locale, falling back to English and then
// to the message ID itself.
func (c *Catalog) Translate(locale, messageID string, data map[string]any) string {
	localizer := i18n.NewLocalizer(c.bundle, locale, language.English.String())

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		// A message found in the English fallback still comes back with a not-found error
		var notFound *i18n.MessageNotFoundErr
		if !errors.As(err, &notFound) {
			msg = ""
		}
	}
	if msg == "" {
		c.logger.Debug("Missing translation",
			zap.String("locale", locale),
			zap.String("message_id", messageID))
		return messageID
	}
	return msg
}

// TranslateOr behaves like Translate but returns fallback instead of the message ID
func (c *Catalog) TranslateOr(locale, messageID, fallback string, data map[string]any) string {
	if msg := c.Translate(locale, messageID, data); msg != messageID {
		return msg
	}
	return fallback
}
