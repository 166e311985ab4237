package server

// Usage:
//
//	mgr := server.NewManager(server.NewServerConfig(cfg), logger)
//	mgr.AddProvider(server.NewSiteProvider(cfg, store, logger))
//	if err := mgr.Start(ctx); err != nil {
//		return err
//	}
//	defer mgr.Shutdown(shutdownCtx)
//
// Public routes (SITE_SERVER_PORT):
//
//	GET  /status, /health      service status
//	GET  /api/locales          available and negotiated locales
//	*    (no route)            404 error page
//
// Admin routes (SITE_SERVER_ADMIN_PORT, bearer token):
//
//	GET    /admin/status
//	GET    /admin/settings
//	GET    /admin/settings/:key
//	PUT    /admin/settings/:key      {"value": ...}
//	DELETE /admin/settings/:key
//	GET    /admin/locales
//	GET    /admin/error-templates/:status
//	GET    /admin/url?path=/some/page
