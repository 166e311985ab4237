package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/errorpage"
	"github.com/sirosfoundation/go-site-backend/internal/locale"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/pkg/middleware"
)

// LocaleLister reports the locales a site has translations for
type LocaleLister interface {
	Available() []string
}

// Translator localizes message IDs
type Translator interface {
	TranslateOr(locale, messageID, fallback string, data map[string]any) string
}

// Handlers contains the public HTTP handlers
type Handlers struct {
	store      storage.Store
	locales    LocaleLister
	renderer   *errorpage.Renderer
	translator Translator
	logger     *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(store storage.Store, locales LocaleLister, renderer *errorpage.Renderer, translator Translator, logger *zap.Logger) *Handlers {
	return &Handlers{
		store:      store,
		locales:    locales,
		renderer:   renderer,
		translator: translator,
		logger:     logger.Named("api"),
	}
}

// ListLocales returns the available locales and the one negotiated for this request
func (h *Handlers) ListLocales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"locales": h.locales.Available(),
		"default": locale.DefaultLocale,
		"current": middleware.GetLocale(c),
	})
}

// NotFound renders the 404 page for unmatched routes
func (h *Handlers) NotFound(c *gin.Context) {
	h.RenderError(c, http.StatusNotFound)
}

// Recovered renders the 500 page after a panic was caught
func (h *Handlers) Recovered(c *gin.Context, recovered any) {
	h.logger.Error("Recovered from panic",
		zap.String("path", c.Request.URL.Path),
		zap.Any("panic", recovered),
		zap.String("request_id", middleware.GetRequestID(c)),
	)
	h.RenderError(c, http.StatusInternalServerError)
}

// RenderError answers with the error page for status. API clients
// (JSON accept header or /api/ paths) receive a JSON body instead.
func (h *Handlers) RenderError(c *gin.Context, status int) {
	code := middleware.GetLocale(c)
	title := h.translator.TranslateOr(code, fmt.Sprintf("error.%d.title", status), http.StatusText(status), nil)

	if wantsJSON(c) {
		c.AbortWithStatusJSON(status, gin.H{"error": title})
		return
	}

	settings, err := h.store.Settings().All(c.Request.Context())
	if err != nil {
		h.logger.Warn("Failed to load settings for error page, using defaults", zap.Error(err))
		settings = domain.ProjectSettings{}
	}

	body, name := h.renderer.Render(settings, errorpage.Page{
		Status:    status,
		Title:     title,
		Message:   h.translator.TranslateOr(code, fmt.Sprintf("error.%d.message", status), "", nil),
		Locale:    code,
		RequestID: middleware.GetRequestID(c),
	})
	if name != "" {
		c.Header("X-Error-Template", name)
	}
	c.Data(status, "text/html; charset=utf-8", body)
	c.Abort()
}

func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
