package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/pkg/config"
)

// Store implements MongoDB storage
type Store struct {
	client   *mongo.Client
	database *mongo.Database
	cfg      *config.MongoDBConfig
	project  domain.ProjectID

	settings *SettingsStore
}

// NewStore creates a new MongoDB store scoped to a project
func NewStore(ctx context.Context, cfg *config.MongoDBConfig, project domain.ProjectID) (*Store, error) {
	if project == "" {
		project = domain.DefaultProjectID
	}

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(time.Duration(cfg.Timeout) * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.Database)

	collection := cfg.Collection
	if collection == "" {
		collection = "settings"
	}

	s := &Store{
		client:   client,
		database: database,
		cfg:      cfg,
		project:  project,
	}
	s.settings = &SettingsStore{
		collection: database.Collection(collection),
		project:    project,
	}

	return s, nil
}

func (s *Store) Settings() storage.SettingsStore { return s.settings }
func (s *Store) Project() domain.ProjectID       { return s.project }

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
