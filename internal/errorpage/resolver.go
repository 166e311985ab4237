// Package errorpage picks and renders the template shown for an HTTP error status.
package errorpage

import (
	"strconv"
	"strings"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
)

// DefaultSuffix is the file suffix of page templates
const DefaultSuffix = ".html.tmpl"

// TemplateChecker reports whether a named template can be loaded
type TemplateChecker interface {
	Exists(name string) bool
}

// Resolver turns the configured error template overrides into an ordered list
// of candidate template names and picks the first one that exists.
type Resolver struct {
	templates TemplateChecker
	suffix    string
}

// NewResolver creates a resolver. An empty suffix selects DefaultSuffix.
func NewResolver(templates TemplateChecker, suffix string) *Resolver {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Resolver{templates: templates, suffix: suffix}
}

// Suffix returns the template suffix in use
func (r *Resolver) Suffix() string {
	return r.suffix
}

// Candidates lists the template names tried for status, in order, without duplicates.
// Overrides come from settings["errors"]["<status>"]; the default
// "pages/error/<status><suffix>" is always last.
func (r *Resolver) Candidates(settings domain.ProjectSettings, status int) []string {
	code := strconv.Itoa(status)

	var candidates []string
	if configured, ok := settings.ErrorTemplates()[code]; ok {
		configured = strings.TrimLeft(configured, "/")
		if configured != "" {
			if strings.HasSuffix(configured, r.suffix) {
				candidates = append(candidates,
					configured,
					"pages/"+configured,
				)
			} else {
				candidates = append(candidates,
					configured+r.suffix,
					"pages/"+configured+r.suffix,
					"pages/error/"+configured+r.suffix,
				)
			}
		}
	}
	candidates = append(candidates, "pages/error/"+code+r.suffix)

	return dedupe(candidates)
}

// Resolve returns the first candidate template that exists
func (r *Resolver) Resolve(settings domain.ProjectSettings, status int) (string, bool) {
	for _, name := range r.Candidates(settings, status) {
		if r.templates.Exists(name) {
			return name, true
		}
	}
	return "", false
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
