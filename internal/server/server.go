// Package server builds the public and admin HTTP servers from route providers.
//
// Providers contribute routes to a shared public router; providers that also
// implement AdminRouteProvider get a token protected group on the admin router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/internal/api"
	"github.com/sirosfoundation/go-site-backend/pkg/config"
	"github.com/sirosfoundation/go-site-backend/pkg/middleware"
)

// RouteProvider contributes routes to the public router
type RouteProvider interface {
	// RegisterRoutes adds this provider's routes to the router.
	// The router may be shared with other providers.
	RegisterRoutes(router *gin.Engine)

	// Name returns the provider name for logging
	Name() string
}

// AdminRouteProvider contributes routes to the admin API
type AdminRouteProvider interface {
	RegisterAdminRoutes(group *gin.RouterGroup)
}

// ServerConfig holds unified server configuration
type ServerConfig struct {
	HTTPAddress string
	HTTPPort    int

	// Admin server settings (port 0 disables the admin server)
	AdminPort  int
	AdminToken string

	CORS         config.CORSConfig
	LoggingLevel string

	// Project is reported by the status endpoints
	Project string
}

// NewServerConfig derives the server configuration from the application configuration
func NewServerConfig(cfg *config.Config) *ServerConfig {
	return &ServerConfig{
		HTTPAddress:  cfg.Server.Host,
		HTTPPort:     cfg.Server.Port,
		AdminPort:    cfg.Server.AdminPort,
		AdminToken:   cfg.Server.AdminToken,
		CORS:         cfg.Server.CORS,
		LoggingLevel: cfg.Logging.Level,
		Project:      cfg.Storage.Project,
	}
}

// Manager owns the public and admin HTTP servers
type Manager struct {
	cfg    *ServerConfig
	logger *zap.Logger

	providers []RouteProvider

	httpServer  *http.Server
	adminServer *http.Server

	httpRouter  *gin.Engine
	adminRouter *gin.Engine
}

// NewManager creates a new server manager
func NewManager(cfg *ServerConfig, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:       cfg,
		logger:    logger,
		providers: make([]RouteProvider, 0),
	}
}

// AddProvider adds a RouteProvider to the manager.
// Call this before Build or Start.
func (m *Manager) AddProvider(p RouteProvider) {
	m.providers = append(m.providers, p)
	m.logger.Debug("Added route provider", zap.String("name", p.Name()))
}

// Build creates the routers without listening. It generates an admin token
// when the admin server is enabled and none is configured.
func (m *Manager) Build() error {
	m.httpRouter = m.buildRouter()
	for _, p := range m.providers {
		m.logger.Info("Registering HTTP routes", zap.String("provider", p.Name()))
		p.RegisterRoutes(m.httpRouter)
	}
	m.addStatusEndpoints(m.httpRouter)

	if m.cfg.AdminPort > 0 {
		token, err := m.adminToken()
		if err != nil {
			return err
		}
		m.adminRouter = m.buildAdminRouter(token)
	}
	return nil
}

// Start builds routers and starts the http servers
func (m *Manager) Start(ctx context.Context) error {
	if m.cfg.LoggingLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := m.Build(); err != nil {
		return err
	}

	httpAddr := fmt.Sprintf("%s:%d", m.cfg.HTTPAddress, m.cfg.HTTPPort)
	m.httpServer = newHTTPServer(httpAddr, m.httpRouter)
	go m.serve("HTTP", m.httpServer)

	if m.adminRouter != nil {
		adminAddr := fmt.Sprintf("%s:%d", m.cfg.HTTPAddress, m.cfg.AdminPort)
		m.adminServer = newHTTPServer(adminAddr, m.adminRouter)
		go m.serve("Admin", m.adminServer)
	}

	return nil
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (m *Manager) serve(name string, srv *http.Server) {
	m.logger.Info(name+" server listening", zap.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		m.logger.Error(name+" server error", zap.Error(err))
	}
}

// Shutdown gracefully shuts down all servers and closes providers that hold resources
func (m *Manager) Shutdown(ctx context.Context) error {
	var errs []error

	if m.httpServer != nil {
		if err := m.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	if m.adminServer != nil {
		if err := m.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}

	for _, p := range m.providers {
		if closer, ok := p.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s provider close: %w", p.Name(), err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// buildRouter creates a new router with common middleware
func (m *Manager) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(m.logger))
	if len(m.cfg.CORS.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     m.cfg.CORS.AllowedOrigins,
			AllowMethods:     m.cfg.CORS.AllowedMethods,
			AllowHeaders:     m.cfg.CORS.AllowedHeaders,
			ExposeHeaders:    m.cfg.CORS.ExposedHeaders,
			AllowCredentials: m.cfg.CORS.AllowCredentials,
			MaxAge:           time.Duration(m.cfg.CORS.MaxAge) * time.Second,
		}))
	}
	return router
}

// addStatusEndpoints adds /health and /status routes
func (m *Manager) addStatusEndpoints(router *gin.Engine) {
	handler := api.Status(m.cfg.Project)
	router.GET("/health", handler)
	router.GET("/status", handler)
}

func (m *Manager) adminToken() (string, error) {
	if m.cfg.AdminToken != "" {
		return m.cfg.AdminToken, nil
	}
	token, err := middleware.GenerateAdminToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate admin token: %w", err)
	}
	m.logger.Info("Generated admin API token (set SITE_SERVER_ADMIN_TOKEN to use a fixed token)",
		zap.String("token", token))
	m.cfg.AdminToken = token
	return token, nil
}

func (m *Manager) buildAdminRouter(token string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(m.logger.Named("admin")))

	group := router.Group("/admin")
	group.Use(middleware.AdminAuthMiddleware(token, m.logger))
	for _, p := range m.providers {
		if ap, ok := p.(AdminRouteProvider); ok {
			m.logger.Info("Registering admin routes", zap.String("provider", p.Name()))
			ap.RegisterAdminRoutes(group)
		}
	}
	return router
}

// HTTPRouter returns the public router, nil before Build
func (m *Manager) HTTPRouter() *gin.Engine {
	return m.httpRouter
}

// AdminRouter returns the admin router, nil before Build or when disabled
func (m *Manager) AdminRouter() *gin.Engine {
	return m.adminRouter
}
