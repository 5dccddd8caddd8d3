package repository

import (
	"context"
	"errors"

	"histock/internal/logger"
	"histock/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

// settingsDocID is the key of the single shared settings document.
const settingsDocID = "general"

type SettingsRepository struct {
	collection *mongo.Collection
}

var SettingsRepositoryTracer = otel.Tracer("SettingsRepository")

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection("settings"),
	}
}

func (r *SettingsRepository) Collection() *mongo.Collection {
	return r.collection
}

// Get returns the shared settings, seeded with the default categories when
// the document does not exist yet.
func (r *SettingsRepository) Get(ctx context.Context) (model.Settings, error) {
	ctx, span := SettingsRepositoryTracer.Start(ctx, "SettingsRepository.Get")
	defer span.End()
	logger.Info(ctx, "Repository")

	var settings model.Settings
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Settings{ID: settingsDocID, Categories: model.DefaultCategories}, nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	if len(settings.Categories) == 0 {
		settings.Categories = model.DefaultCategories
	}
	return settings, nil
}

// ReplaceCategories writes the whole category list, creating the settings
// document on first use.
func (r *SettingsRepository) ReplaceCategories(ctx context.Context, categories []string) error {
	ctx, span := SettingsRepositoryTracer.Start(ctx, "SettingsRepository.ReplaceCategories")
	defer span.End()
	logger.Info(ctx, "Repository")

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": settingsDocID},
		bson.M{"$set": bson.M{"categories": categories}},
		options.Update().SetUpsert(true),
	)
	return err
}
