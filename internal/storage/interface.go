package storage

import (
	"context"
	"errors"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
)

// Common errors
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDatabase             = errors.New("database error")
	ErrMissingConfiguration = errors.New("missing configuration")
)

// SettingsStore defines the interface for a project's settings storage.
// Keys are dotted paths into the settings tree ("core.url").
type SettingsStore interface {
	// All returns a copy of the whole settings tree
	All(ctx context.Context) (domain.ProjectSettings, error)

	// Get returns the value under key, or ErrNotFound
	Get(ctx context.Context, key string) (any, error)

	// Set stores value under key, creating intermediate entries
	Set(ctx context.Context, key string, value any) error

	// Delete removes key, or returns ErrNotFound
	Delete(ctx context.Context, key string) error

	// Seed stores settings only if the project has no settings yet.
	// It reports whether the seed was applied.
	Seed(ctx context.Context, settings domain.ProjectSettings) (bool, error)
}

// Store is the interface for the storage backend
type Store interface {
	Settings() SettingsStore

	// Project returns the project the store is scoped to
	Project() domain.ProjectID

	// Close closes the storage connection
	Close() error

	// Ping checks if the storage is alive
	Ping(ctx context.Context) error
}
