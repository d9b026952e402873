package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
)

const servicesCacheKey = "services:all"

type ServiceRepository interface {
	GetAll(ctx context.Context) ([]models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CatalogService manages the bookable service catalog.
type CatalogService struct {
	repo  ServiceRepository
	cache Cache
}

func NewCatalogService(repo ServiceRepository, cache Cache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

func (s *CatalogService) GetServices(ctx context.Context) ([]models.Service, error) {
	var cached []models.Service
	if err := s.cache.Get(ctx, servicesCacheKey, &cached); err == nil {
		return cached, nil
	}

	services, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, servicesCacheKey, services, 5*time.Minute); err != nil {
		log.Printf("Failed to cache service catalog: %v", err)
	}

	return services, nil
}

func (s *CatalogService) CreateService(ctx context.Context, service *models.Service) error {
	if err := service.Validate(); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, service); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *CatalogService) UpdateService(ctx context.Context, service *models.Service) error {
	if service.ID.IsZero() {
		return models.ErrInvalidID
	}

	if err := service.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, service); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}

	if err := s.repo.Delete(ctx, objID); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, servicesCacheKey); err != nil {
		log.Printf("Failed to invalidate service catalog cache: %v", err)
	}
}
