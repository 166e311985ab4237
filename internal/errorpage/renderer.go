package errorpage

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
)

// TemplateSource can check for and read templates by name
type TemplateSource interface {
	TemplateChecker
	Read(name string) ([]byte, error)
}

// Page is the data handed to error templates
type Page struct {
	Status     int
	StatusText string
	Title      string
	Message    string
	Locale     string
	RequestID  string
}

// fallbackTemplate is used when no configured or default template resolves
var fallbackTemplate = template.Must(template.New("fallback").Parse(`<!DOCTYPE html>
<html lang="{{.Locale}}">
<head><meta charset="utf-8"><title>{{.Status}} {{.Title}}</title></head>
<body>
<h1>{{.Status}} {{.Title}}</h1>
{{if .Message}}<p>{{.Message}}</p>{{end}}
</body>
</html>
`))

// Renderer renders error pages through the resolver, falling back to a built-in page
type Renderer struct {
	resolver *Resolver
	source   TemplateSource
	logger   *zap.Logger
}

// NewRenderer creates a renderer reading templates from source
func NewRenderer(source TemplateSource, suffix string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		resolver: NewResolver(source, suffix),
		source:   source,
		logger:   logger.Named("errorpage"),
	}
}

// Resolver exposes the candidate resolver used by the renderer
func (r *Renderer) Resolver() *Resolver {
	return r.resolver
}

// Render writes the error page for page.Status and reports which template was used
// ("" for the built-in page).
func (r *Renderer) Render(settings domain.ProjectSettings, page Page) ([]byte, string) {
	if page.StatusText == "" {
		page.StatusText = http.StatusText(page.Status)
	}
	if page.Title == "" {
		page.Title = page.StatusText
	}

	if name, ok := r.resolver.Resolve(settings, page.Status); ok {
		out, err := r.renderNamed(name, page)
		if err == nil {
			return out, name
		}
		r.logger.Error("Failed to render error template, using built-in page",
			zap.String("template", name),
			zap.Int("status", page.Status),
			zap.Error(err))
	}

	var buf bytes.Buffer
	if err := fallbackTemplate.Execute(&buf, page); err != nil {
		// The built-in template only formats plain fields
		return []byte(fmt.Sprintf("%d %s", page.Status, page.Title)), ""
	}
	return buf.Bytes(), ""
}

func (r *Renderer) renderNamed(name string, page Page) ([]byte, error) {
	src, err := r.source.Read(name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
