package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/internal/api"
	"github.com/sirosfoundation/go-site-backend/internal/errorpage"
	"github.com/sirosfoundation/go-site-backend/internal/locale"
	"github.com/sirosfoundation/go-site-backend/internal/routing"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/internal/theme"
	"github.com/sirosfoundation/go-site-backend/internal/translation"
	"github.com/sirosfoundation/go-site-backend/pkg/config"
	"github.com/sirosfoundation/go-site-backend/pkg/middleware"
)

// SiteProvider serves the public site routes and the settings admin API of one project
type SiteProvider struct {
	store    storage.Store
	locales  *locale.Scanner
	handlers *api.Handlers
	admin    *api.AdminHandlers
	limiter  *middleware.RateLimiter
	logger   *zap.Logger
}

// NewSiteProvider wires the site components configured in cfg around store
func NewSiteProvider(cfg *config.Config, store storage.Store, logger *zap.Logger) *SiteProvider {
	locales := locale.NewDirScanner(cfg.Site.TranslationsDir, logger)
	catalog := translation.NewDirCatalog(cfg.Site.TranslationsDir, logger)
	loader := theme.NewDirLoader(cfg.Site.TemplatesDir, cfg.Site.ThemesDir, cfg.Site.Theme, logger)
	renderer := errorpage.NewRenderer(loader, cfg.Site.TemplateSuffix, logger)

	configurer := routing.NewConfigurer(store.Settings(), cfg.Router.DefaultURI, routing.NewRequestContext(), logger)

	p := &SiteProvider{
		store:    store,
		locales:  locales,
		handlers: api.NewHandlers(store, locales, renderer, catalog, logger),
		admin:    api.NewAdminHandlers(store, locales, renderer.Resolver(), configurer, logger),
		logger:   logger,
	}
	if cfg.RateLimit.Enabled {
		p.limiter = middleware.NewRateLimiter(middleware.RateLimitConfigFrom(cfg.RateLimit), logger)
	}

	logger.Info("Site provider initialized",
		zap.String("project", string(store.Project())),
		zap.Strings("template_roots", loader.Roots()),
		zap.Strings("translation_files", catalog.Files()),
	)
	return p
}

func (p *SiteProvider) Name() string { return "site" }

func (p *SiteProvider) RegisterRoutes(router *gin.Engine) {
	if p.limiter != nil {
		router.Use(middleware.RateLimitMiddleware(p.limiter, p.logger))
	}
	router.Use(middleware.Locale(p.locales))
	router.Use(gin.CustomRecovery(p.handlers.Recovered))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/locales", p.handlers.ListLocales)
	}

	router.NoRoute(p.handlers.NotFound)
}

// RegisterAdminRoutes implements AdminRouteProvider
func (p *SiteProvider) RegisterAdminRoutes(group *gin.RouterGroup) {
	group.GET("/status", p.admin.AdminStatus)

	settings := group.Group("/settings")
	{
		settings.GET("", p.admin.ListSettings)
		settings.GET("/:key", p.admin.GetSetting)
		settings.PUT("/:key", p.admin.PutSetting)
		settings.DELETE("/:key", p.admin.DeleteSetting)
	}

	group.GET("/locales", p.admin.ListLocales)
	group.GET("/error-templates/:status", p.admin.ResolveErrorTemplate)
	group.GET("/url", p.admin.GenerateURL)
}

// Close stops the rate limiter; the store is owned by the caller
func (p *SiteProvider) Close() error {
	if p.limiter != nil {
		p.limiter.Stop()
	}
	return nil
}
