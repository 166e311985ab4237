package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
)

// Store implements an in-memory storage
type Store struct {
	project  domain.ProjectID
	settings *SettingsStore
}

// NewStore creates a new in-memory store for a project
func NewStore(project domain.ProjectID) *Store {
	if project == "" {
		project = domain.DefaultProjectID
	}
	return &Store{
		project:  project,
		settings: &SettingsStore{data: domain.ProjectSettings{}},
	}
}

func (s *Store) Settings() storage.SettingsStore { return s.settings }
func (s *Store) Project() domain.ProjectID       { return s.project }
func (s *Store) Close() error                    { return nil }
func (s *Store) Ping(ctx context.Context) error  { return nil }

// SettingsStore implements in-memory settings storage
type SettingsStore struct {
	mu   sync.RWMutex
	data domain.ProjectSettings
}

func (s *SettingsStore) All(ctx context.Context) (domain.ProjectSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.Clone(), nil
}

func (s *SettingsStore) Get(ctx context.Context, key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data.Lookup(key)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return domain.CloneValue(v), nil
}

func (s *SettingsStore) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.data.Set(key, value); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}
	return nil
}

func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.data.Delete(key) {
		return storage.ErrNotFound
	}
	return nil
}

func (s *SettingsStore) Seed(ctx context.Context, settings domain.ProjectSettings) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) > 0 {
		return false, nil
	}
	s.data = domain.NewProjectSettings(settings)
	return true, nil
}
