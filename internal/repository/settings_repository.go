package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"home-services-app/internal/models"
)

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{collection: db.Collection("settings")}
}

func (r *SettingsRepository) GetByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&setting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert replaces the value for key, creating the document when absent.
func (r *SettingsRepository) Upsert(ctx context.Context, key, value string) (*models.Setting, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var setting models.Setting
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"key": key, "value": value}},
		opts,
	).Decode(&setting)
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *SettingsRepository) GetAll(ctx context.Context) ([]models.Setting, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var settings []models.Setting
	if err = cursor.All(ctx, &settings); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = []models.Setting{}
	}
	return settings, nil
}
