package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
)

// pathNotViable is the server code for a $set that descends through a non-document value
const pathNotViable = 28

// SettingsStore keeps one document per project:
// {_id: <project>, settings: {...}, updated_at: <time>}
type SettingsStore struct {
	collection *mongo.Collection
	project    domain.ProjectID
}

// settingsDocument mirrors domain.ProjectDocument with a raw bson tree
type settingsDocument struct {
	ID        string    `bson:"_id"`
	Settings  bson.M    `bson:"settings"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s *SettingsStore) filter() bson.M {
	return bson.M{"_id": string(s.project)}
}

func (s *SettingsStore) load(ctx context.Context) (domain.ProjectSettings, error) {
	var doc settingsDocument
	err := s.collection.FindOne(ctx, s.filter()).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ProjectSettings{}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	tree, _ := fromBSON(doc.Settings).(map[string]any)
	return domain.NewProjectSettings(tree), nil
}

func (s *SettingsStore) All(ctx context.Context) (domain.ProjectSettings, error) {
	return s.load(ctx)
}

func (s *SettingsStore) Get(ctx context.Context, key string) (any, error) {
	settings, err := s.load(ctx)
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
	// Validate the key the same way every backend does
	if err := (domain.ProjectSettings{}).Set(key, value); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	update := bson.M{
		"$set": bson.M{
			"settings." + key: domain.Normalize(value),
			"updated_at":      time.Now(),
		},
	}
	_, err := s.collection.UpdateOne(ctx, s.filter(), update, options.Update().SetUpsert(true))
	if err != nil {
		if isPathNotViable(err) {
			return s.replaceTree(ctx, key, value)
		}
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

func isPathNotViable(err error) bool {
	var serverErr mongo.ServerError
	return errors.As(err, &serverErr) && serverErr.HasErrorCode(pathNotViable)
}

// replaceTree rewrites the whole tree so a scalar parent of key becomes a map,
// matching domain.ProjectSettings.Set. The write is guarded by updated_at.
func (s *SettingsStore) replaceTree(ctx context.Context, key string, value any) error {
	var doc settingsDocument
	if err := s.collection.FindOne(ctx, s.filter()).Decode(&doc); err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	tree, _ := fromBSON(doc.Settings).(map[string]any)
	settings := domain.NewProjectSettings(tree)
	if err := settings.Set(key, value); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	filter := s.filter()
	filter["updated_at"] = doc.UpdatedAt
	update := bson.M{
		"$set": bson.M{
			"settings":   map[string]any(settings),
			"updated_at": time.Now(),
		},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: settings changed while setting %q", storage.ErrDatabase, key)
	}
	return nil
}

func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	filter := s.filter()
	filter["settings."+key] = bson.M{"$exists": true}

	update := bson.M{
		"$unset": bson.M{"settings." + key: ""},
		"$set":   bson.M{"updated_at": time.Now()},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	if result.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *SettingsStore) Seed(ctx context.Context, settings domain.ProjectSettings) (bool, error) {
	update := bson.M{
		"$setOnInsert": bson.M{
			"settings":   map[string]any(domain.NewProjectSettings(settings)),
			"updated_at": time.Now(),
		},
	}
	result, err := s.collection.UpdateOne(ctx, s.filter(), update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to seed settings: %w", err)
	}
	return result.UpsertedCount > 0, nil
}

// fromBSON converts driver container types into plain maps and slices
func fromBSON(v any) any {
	switch val := v.(type) {
	case primitive.M:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = fromBSON(child)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(val))
		for _, elem := range val {
			out[elem.Key] = fromBSON(elem.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = fromBSON(child)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = fromBSON(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = fromBSON(child)
		}
		return out
	default:
		return v
	}
}
