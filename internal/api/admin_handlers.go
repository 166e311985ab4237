package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/errorpage"
	"github.com/sirosfoundation/go-site-backend/internal/routing"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/pkg/uri"
)

// AdminHandlers contains handlers for internal admin API endpoints
type AdminHandlers struct {
	store      storage.Store
	locales    LocaleLister
	resolver   *errorpage.Resolver
	configurer *routing.Configurer
	logger     *zap.Logger
}

// NewAdminHandlers creates a new AdminHandlers instance
func NewAdminHandlers(store storage.Store, locales LocaleLister, resolver *errorpage.Resolver, configurer *routing.Configurer, logger *zap.Logger) *AdminHandlers {
	return &AdminHandlers{
		store:      store,
		locales:    locales,
		resolver:   resolver,
		configurer: configurer,
		logger:     logger.Named("admin"),
	}
}

// SettingResponse represents a single settings value in API responses
type SettingResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// ErrorTemplateResponse describes how an error status resolves to a template
type ErrorTemplateResponse struct {
	Status     int      `json:"status"`
	Candidates []string `json:"candidates"`
	Template   string   `json:"template,omitempty"`
	Found      bool     `json:"found"`
}

// AdminStatus returns the admin API status
func (h *AdminHandlers) AdminStatus(c *gin.Context) {
	status := "ok"
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("Storage ping failed", zap.Error(err))
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": ServiceName + "-admin",
		"project": string(h.store.Project()),
	})
}

// ListSettings returns the whole settings tree of the project
func (h *AdminHandlers) ListSettings(c *gin.Context) {
	settings, err := h.store.Settings().All(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":  string(h.store.Project()),
		"settings": settings,
	})
}

// GetSetting returns one settings value
func (h *AdminHandlers) GetSetting(c *gin.Context) {
	key := c.Param("key")

	value, err := h.store.Settings().Get(c.Request.Context(), key)
	if err != nil {
		h.storageError(c, "get", key, err)
		return
	}

	c.JSON(http.StatusOK, SettingResponse{Key: key, Value: value})
}

// PutSetting stores one settings value from a {"value": ...} body
func (h *AdminHandlers) PutSetting(c *gin.Context) {
	key := c.Param("key")

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	raw, ok := body["value"]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value"})
		return
	}

	if key == domain.SettingCoreURL && !uri.IsValidValue(value) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "core.url must be an absolute URL"})
		return
	}

	if err := h.store.Settings().Set(c.Request.Context(), key, value); err != nil {
		h.storageError(c, "set", key, err)
		return
	}

	h.logger.Info("Setting updated", zap.String("key", key))
	c.JSON(http.StatusOK, SettingResponse{Key: key, Value: value})
}

// DeleteSetting removes one settings value
func (h *AdminHandlers) DeleteSetting(c *gin.Context) {
	key := c.Param("key")

	if err := h.store.Settings().Delete(c.Request.Context(), key); err != nil {
		h.storageError(c, "delete", key, err)
		return
	}

	h.logger.Info("Setting deleted", zap.String("key", key))
	c.Status(http.StatusNoContent)
}

// ListLocales returns the locales found in the translation directory
func (h *AdminHandlers) ListLocales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locales": h.locales.Available()})
}

// ResolveErrorTemplate shows the candidate templates for a status and which one resolves
func (h *AdminHandlers) ResolveErrorTemplate(c *gin.Context) {
	status, err := strconv.Atoi(c.Param("status"))
	if err != nil || status < 100 || status > 599 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status code"})
		return
	}

	settings, err := h.store.Settings().All(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	resp := ErrorTemplateResponse{
		Status:     status,
		Candidates: h.resolver.Candidates(settings, status),
	}
	resp.Template, resp.Found = h.resolver.Resolve(settings, status)
	c.JSON(http.StatusOK, resp)
}

// GenerateURL builds an absolute URL for ?path= from the current project base URI.
// Each request starts from a fresh router context.
func (h *AdminHandlers) GenerateURL(c *gin.Context) {
	router := routing.NewRequestContext()
	configured := h.configurer.ConfigureTarget(c.Request.Context(), router)

	c.JSON(http.StatusOK, gin.H{
		"url":        router.URL(c.Query("path")),
		"base_url":   router.BaseURL(),
		"configured": configured,
	})
}

func (h *AdminHandlers) storageError(c *gin.Context, op, key string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
	case errors.Is(err, storage.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Settings operation failed",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op + " setting"})
	}
}
