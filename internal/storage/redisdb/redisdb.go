// Package redisdb stores project settings as one JSON document per project in Redis.
package redisdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/pkg/config"
)

// maxTxRetries bounds optimistic-lock retries on concurrent writers
const maxTxRetries = 5

// Store implements Redis storage
type Store struct {
	client   *redis.Client
	project  domain.ProjectID
	settings *SettingsStore
}

// NewStore connects to Redis and returns a store scoped to a project
func NewStore(ctx context.Context, cfg *config.RedisConfig, project domain.ProjectID) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewStoreWithClient(client, cfg.KeyPrefix, project), nil
}

// NewStoreWithClient wraps an existing client
func NewStoreWithClient(client *redis.Client, keyPrefix string, project domain.ProjectID) *Store {
	if project == "" {
		project = domain.DefaultProjectID
	}
	if keyPrefix == "" {
		keyPrefix = "site:settings:"
	}
	return &Store{
		client:  client,
		project: project,
		settings: &SettingsStore{
			client:  client,
			key:     keyPrefix + string(project),
			project: project,
		},
	}
}

func (s *Store) Settings() storage.SettingsStore { return s.settings }
func (s *Store) Project() domain.ProjectID       { return s.project }
func (s *Store) Close() error                    { return s.client.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SettingsStore implements Redis settings storage
type SettingsStore struct {
	client  *redis.Client
	key     string
	project domain.ProjectID
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *SettingsStore) load(ctx context.Context, g getter) (domain.ProjectSettings, error) {
	data, err := g.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ProjectSettings{}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	var doc domain.ProjectDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: corrupt settings document: %v", storage.ErrDatabase, err)
	}
	return domain.NewProjectSettings(doc.Settings), nil
}

func (s *SettingsStore) encode(settings domain.ProjectSettings) ([]byte, error) {
	data, err := json.Marshal(domain.ProjectDocument{ID: s.project, Settings: settings, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}
	return data, nil
}

// update applies fn to the stored tree under an optimistic lock
func (s *SettingsStore) update(ctx context.Context, fn func(domain.ProjectSettings) error) error {
	txf := func(tx *redis.Tx) error {
		settings, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(settings); err != nil {
			return err
		}
		data, err := s.encode(settings)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("%w: too many concurrent settings updates", storage.ErrDatabase)
}

func (s *SettingsStore) All(ctx context.Context) (domain.ProjectSettings, error) {
	return s.load(ctx, s.client)
}

func (s *SettingsStore) Get(ctx context.Context, key string) (any, error) {
	settings, err := s.load(ctx, s.client)
	if err != nil {
		return nil, err
	}
	v, ok := settings.Lookup(key)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (s *SettingsStore) Set(ctx context.Context, key string, value any) error {
	return s.update(ctx, func(settings domain.ProjectSettings) error {
		if err := settings.Set(key, value); err != nil {
			return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
		}
		return nil
	})
}

func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	return s.update(ctx, func(settings domain.ProjectSettings) error {
		if !settings.Delete(key) {
			return storage.ErrNotFound
		}
		return nil
	})
}

func (s *SettingsStore) Seed(ctx context.Context, settings domain.ProjectSettings) (bool, error) {
	data, err := s.encode(domain.NewProjectSettings(settings))
	if err != nil {
		return false, err
	}
	applied, err := s.client.SetNX(ctx, s.key, data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to seed settings: %w", err)
	}
	return applied, nil
}
