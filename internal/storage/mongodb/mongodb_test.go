package mongodb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/pkg/config"
)

func getTestMongoURI() string {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	return uri
}

func skipIfNoMongo(t *testing.T) *Store {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := &config.MongoDBConfig{
		URI:      getTestMongoURI(),
		Database: "site_backend_test",
		Timeout:  5,
	}

	store, err := NewStore(ctx, cfg, "test-project")
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
		return nil
	}

	// Clean up test database
	t.Cleanup(func() {
		ctx := context.Background()
		_ = store.database.Drop(ctx)
		_ = store.Close()
	})

	return store
}

func TestNewStore(t *testing.T) {
	store := skipIfNoMongo(t)
	require.NotNil(t, store)
	assert.Equal(t, domain.ProjectID("test-project"), store.Project())
	assert.NotNil(t, store.Settings())
}

func TestStore_Ping(t *testing.T) {
	store := skipIfNoMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, store.Ping(ctx))
}

func TestSettingsStore_CRUD(t *testing.T) {
	store := skipIfNoMongo(t)
	ctx := context.Background()
	settings := store.Settings()

	_, err := settings.Get(ctx, "core.url")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, settings.Set(ctx, "core.url", "https://prod.example"))
	require.NoError(t, settings.Set(ctx, "errors.404", "custom/missing"))

	v, err := settings.Get(ctx, "core.url")
	require.NoError(t, err)
	assert.Equal(t, "https://prod.example", v)

	all, err := settings.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorTemplateMapping{"404": "custom/missing"}, all.ErrorTemplates())

	require.NoError(t, settings.Delete(ctx, "errors.404"))
	assert.ErrorIs(t, settings.Delete(ctx, "errors.404"), storage.ErrNotFound)

	assert.ErrorIs(t, settings.Set(ctx, "bad..key", "x"), storage.ErrInvalidInput)
}

func TestSettingsStore_SetReplacesScalarParent(t *testing.T) {
	store := skipIfNoMongo(t)
	ctx := context.Background()
	settings := store.Settings()

	require.NoError(t, settings.Set(ctx, "core", "scalar"))
	require.NoError(t, settings.Set(ctx, "errors.404", "custom/missing"))
	require.NoError(t, settings.Set(ctx, "core.url", "https://prod.example"))

	v, err := settings.Get(ctx, "core.url")
	require.NoError(t, err)
	assert.Equal(t, "https://prod.example", v)

	all, err := settings.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorTemplateMapping{"404": "custom/missing"}, all.ErrorTemplates())
}

func TestIsPathNotViable(t *testing.T) {
	assert.True(t, isPathNotViable(mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: pathNotViable}}}))
	assert.False(t, isPathNotViable(mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}))
	assert.False(t, isPathNotViable(errors.New("connection reset")))
	assert.False(t, isPathNotViable(nil))
}

func TestSettingsStore_Seed(t *testing.T) {
	store := skipIfNoMongo(t)
	ctx := context.Background()
	settings := store.Settings()

	applied, err := settings.Seed(ctx, domain.ProjectSettings{"core": map[string]any{"url": "https://seed.example"}})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = settings.Seed(ctx, domain.ProjectSettings{"core": map[string]any{"url": "https://other.example"}})
	require.NoError(t, err)
	assert.False(t, applied)

	v, err := settings.Get(ctx, "core.url")
	require.NoError(t, err)
	assert.Equal(t, "https://seed.example", v)
}

func TestFromBSON(t *testing.T) {
	in := bson.M{
		"core": bson.M{"url": "https://prod.example"},
		"list": primitive.A{"a", bson.D{{Key: "k", Value: "v"}}},
	}

	out := fromBSON(in)

	assert.Equal(t, map[string]any{
		"core": map[string]any{"url": "https://prod.example"},
		"list": []any{"a", map[string]any{"k": "v"}},
	}, out)
}
