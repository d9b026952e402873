package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"home-services-app/internal/models"
)

const serviceCollection = "services"

type ServiceRepository struct {
	db *mongo.Database
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) GetAll(ctx context.Context) ([]models.Service, error) {
	collection := r.db.Collection(serviceCollection)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, err
	}

	if services == nil {
		services = []models.Service{}
	}

	return services, nil
}

func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	collection := r.db.Collection(serviceCollection)

	// Check for duplicate name
	count, err := collection.CountDocuments(ctx, bson.M{"name": service.Name})
	if err != nil {
		return err
	}
	if count > 0 {
		return models.ErrDuplicate
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	service.CreatedAt = now
	service.UpdatedAt = now

	result, err := collection.InsertOne(ctx, service)
	if err != nil {
		return err
	}

	service.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	collection := r.db.Collection(serviceCollection)

	if service.ID.IsZero() {
		return models.ErrInvalidID
	}

	// Check for duplicate name (excluding current service)
	count, err := collection.CountDocuments(ctx, bson.M{
		"name": service.Name,
		"_id":  bson.M{"$ne": service.ID},
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return models.ErrDuplicate
	}

	service.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())

	update := bson.M{"$set": bson.M{
		"name":      service.Name,
		"icon":      service.Icon,
		"minPrice":  service.MinPrice,
		"maxPrice":  service.MaxPrice,
		"updatedAt": service.UpdatedAt,
	}}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": service.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	collection := r.db.Collection(serviceCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}
