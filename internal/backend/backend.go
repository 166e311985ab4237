package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/internal/storage/memory"
	"github.com/sirosfoundation/go-site-backend/internal/storage/mongodb"
	"github.com/sirosfoundation/go-site-backend/internal/storage/redisdb"
	"github.com/sirosfoundation/go-site-backend/pkg/config"
)

// Type defines the type of storage backend
type Type string

const (
	// TypeMemory uses in-memory storage (for testing/development)
	TypeMemory Type = "memory"
	// TypeMongoDB uses MongoDB storage (for production)
	TypeMongoDB Type = "mongodb"
	// TypeRedis keeps the settings document in Redis
	TypeRedis Type = "redis"
)

// New creates the settings store selected by the configuration and applies
// the optional seed file when the project has no settings yet.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	project := domain.ProjectID(cfg.Storage.Project)
	if project == "" {
		project = domain.DefaultProjectID
	}
	if err := domain.ValidateProjectID(project); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	store, err := open(ctx, cfg, project)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.SeedFile != "" {
		if err := seed(ctx, store, cfg.Storage.SeedFile, logger); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return store, nil
}

func open(ctx context.Context, cfg *config.Config, project domain.ProjectID) (storage.Store, error) {
	storageType := Type(cfg.Storage.Type)

	switch storageType {
	case TypeMemory, "":
		// Default to memory if not specified
		return memory.NewStore(project), nil

	case TypeMongoDB:
		store, err := mongodb.NewStore(ctx, &cfg.Storage.MongoDB, project)
		if err != nil {
			return nil, fmt.Errorf("failed to create MongoDB backend: %w", err)
		}
		return store, nil

	case TypeRedis:
		store, err := redisdb.NewStore(ctx, &cfg.Storage.Redis, project)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis backend: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: unsupported storage type: %s", storage.ErrMissingConfiguration, storageType)
	}
}

func seed(ctx context.Context, store storage.Store, path string, logger *zap.Logger) error {
	settings, err := storage.LoadSeedFile(path)
	if err != nil {
		return err
	}

	applied, err := store.Settings().Seed(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	logger.Info("Settings seed processed",
		zap.String("project", string(store.Project())),
		zap.String("file", path),
		zap.Bool("applied", applied),
	)
	return nil
}
