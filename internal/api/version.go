// Package api provides the HTTP handlers of the site backend.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIVersion represents the current API version supported by this server.
// The api_version field in /status lets clients detect available features.
const (
	// APIVersion1 is the first API version.
	APIVersion1 = 1

	// CurrentAPIVersion is the highest API version supported by this server.
	CurrentAPIVersion = APIVersion1
)

// ServiceName is reported by the status endpoints
const ServiceName = "site-backend"

// APICapabilities describes the features available at each API version.
var APICapabilities = map[int][]string{
	APIVersion1: {
		"locales",
		"error-pages",
		"translations",
		"settings-admin",
	},
}

// StatusResponse is the response from the /status endpoint.
type StatusResponse struct {
	Status       string   `json:"status"`
	Service      string   `json:"service"`
	Project      string   `json:"project,omitempty"`
	APIVersion   int      `json:"api_version"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// NewStatusResponse builds the status payload for a project
func NewStatusResponse(project string) StatusResponse {
	return StatusResponse{
		Status:       "ok",
		Service:      ServiceName,
		Project:      project,
		APIVersion:   CurrentAPIVersion,
		Capabilities: APICapabilities[CurrentAPIVersion],
	}
}

// Status returns a handler answering the /status and /health endpoints
func Status(project string) gin.HandlerFunc {
	resp := NewStatusResponse(project)
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, resp)
	}
}
