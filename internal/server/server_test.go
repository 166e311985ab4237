package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/internal/api"
	"github.com/sirosfoundation/go-site-backend/internal/storage/memory"
	"github.com/sirosfoundation/go-site-backend/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "templates/pages/error/404.html.tmpl"), `base {{.Status}}`)
	writeFile(t, filepath.Join(root, "themes/dark/pages/error/404.html.tmpl"), `dark {{.Status}} {{.Title}}`)
	writeFile(t, filepath.Join(root, "translations/messages.fr.yaml"), "error:\n  \"404\":\n    title: Introuvable\n")
	writeFile(t, filepath.Join(root, "translations/validators.de.yaml"), "x: y\n")

	cfg := config.Default()
	cfg.Storage.Project = "blog"
	cfg.Server.AdminToken = "secret"
	cfg.Site.TemplatesDir = filepath.Join(root, "templates")
	cfg.Site.ThemesDir = filepath.Join(root, "themes")
	cfg.Site.Theme = "dark"
	cfg.Site.TranslationsDir = filepath.Join(root, "translations")
	cfg.Router.DefaultURI = "https://default.example"
	return cfg
}

func buildManager(t *testing.T, cfg *config.Config) (*Manager, *memory.Store) {
	t.Helper()

	store := memory.NewStore("blog")
	mgr := NewManager(NewServerConfig(cfg), zap.NewNop())
	mgr.AddProvider(NewSiteProvider(cfg, store, zap.NewNop()))
	require.NoError(t, mgr.Build())
	t.Cleanup(func() { _ = mgr.Shutdown(context.Background()) })
	return mgr, store
}

func TestManager_StatusEndpoints(t *testing.T) {
	mgr, _ := buildManager(t, testConfig(t))

	for _, path := range []string{"/status", "/health"} {
		w := httptest.NewRecorder()
		mgr.HTTPRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)

		var resp api.StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "blog", resp.Project)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}

func TestManager_ThemeErrorPage(t *testing.T) {
	mgr, _ := buildManager(t, testConfig(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no/such/page", nil)
	req.Header.Set("Accept-Language", "fr")
	mgr.HTTPRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "dark 404 Introuvable", w.Body.String())
	assert.Equal(t, "fr", w.Header().Get("Content-Language"))
}

func TestManager_Locales(t *testing.T) {
	mgr, _ := buildManager(t, testConfig(t))

	w := httptest.NewRecorder()
	mgr.HTTPRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/locales", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Locales []string `json:"locales"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"de", "en", "fr"}, resp.Locales)
}

func TestManager_AdminRequiresToken(t *testing.T) {
	mgr, _ := buildManager(t, testConfig(t))
	admin := mgr.AdminRouter()
	require.NotNil(t, admin)

	w := httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/settings/core.url", strings.NewReader(`{"value":"https://prod.example"}`))
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Content-Type", "application/json")
	admin.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/url?path=feed.xml", nil)
	req.Header.Set("Authorization", "Bearer secret")
	admin.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"url":"https://prod.example/feed.xml"`)
}

func TestManager_AdminDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.AdminPort = 0

	mgr, _ := buildManager(t, cfg)
	assert.Nil(t, mgr.AdminRouter())
}

func TestManager_GeneratesAdminToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.AdminToken = ""

	serverCfg := NewServerConfig(cfg)
	mgr := NewManager(serverCfg, zap.NewNop())
	require.NoError(t, mgr.Build())

	assert.Len(t, serverCfg.AdminToken, 64)
}

func TestManager_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, BurstSize: 1}

	mgr, _ := buildManager(t, cfg)

	w := httptest.NewRecorder()
	mgr.HTTPRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/locales", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	mgr.HTTPRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/locales", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}
