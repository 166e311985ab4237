package routing

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/pkg/uri"
)

// SettingsReader reads single settings values
type SettingsReader interface {
	Get(ctx context.Context, key string) (any, error)
}

// Configurer points the router context at the project URL before a console
// command runs. The "core.url" setting wins; the default URI is the fallback.
// When neither is a valid absolute URL the context is left untouched.
type Configurer struct {
	settings   SettingsReader
	defaultURI string
	target     BaseURISetter
	logger     *zap.Logger
}

// NewConfigurer creates a configurer applying the resolved URI to target
func NewConfigurer(settings SettingsReader, defaultURI string, target BaseURISetter, logger *zap.Logger) *Configurer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Configurer{
		settings:   settings,
		defaultURI: defaultURI,
		target:     target,
		logger:     logger.Named("routing"),
	}
}

// ResolveURI returns the URI that Configure would apply
func (c *Configurer) ResolveURI(ctx context.Context) (string, bool) {
	candidates := c.candidates(ctx)
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], true
}

// candidates lists the valid base URIs in priority order: core.url, then the default
func (c *Configurer) candidates(ctx context.Context) []string {
	var out []string
	if c.settings != nil {
		value, err := c.settings.Get(ctx, domain.SettingCoreURL)
		switch {
		case err == nil:
			if uri.IsValidValue(value) {
				out = append(out, value.(string))
			}
		case errors.Is(err, storage.ErrNotFound):
		default:
			c.logger.Debug("Failed to read project URL, using default",
				zap.String("key", domain.SettingCoreURL), zap.Error(err))
		}
	}

	if uri.IsValid(c.defaultURI) && (len(out) == 0 || out[0] != c.defaultURI) {
		out = append(out, c.defaultURI)
	}
	return out
}

// Configure applies the first base URI the router context accepts. It reports
// whether the router context was changed.
func (c *Configurer) Configure(ctx context.Context) bool {
	return c.ConfigureTarget(ctx, c.target)
}

// ConfigureTarget is Configure against another router context
func (c *Configurer) ConfigureTarget(ctx context.Context, target BaseURISetter) bool {
	candidates := c.candidates(ctx)
	if len(candidates) == 0 {
		c.logger.Debug("No valid base URI configured, router context unchanged")
		return false
	}

	for _, candidate := range candidates {
		if err := target.SetBaseURI(candidate); err != nil {
			c.logger.Warn("Failed to apply base URI", zap.String("uri", candidate), zap.Error(err))
			continue
		}
		c.logger.Debug("Router context configured", zap.String("uri", candidate))
		return true
	}
	return false
}
