package services

import (
	"context"
	"fmt"

	"home-services-app/internal/models"
)

type SettingsRepository interface {
	GetByKey(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, key, value string) (*models.Setting, error)
	GetAll(ctx context.Context) ([]models.Setting, error)
}

type SettingsService struct {
	repo SettingsRepository
}

func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	return s.repo.GetByKey(ctx, key)
}

func (s *SettingsService) UpsertSetting(ctx context.Context, key, value string) (*models.Setting, error) {
	if key == "" || value == "" {
		return nil, fmt.Errorf("%w: key and value are required", models.ErrValidation)
	}
	return s.repo.Upsert(ctx, key, value)
}

func (s *SettingsService) GetAllSettings(ctx context.Context) ([]models.Setting, error) {
	return s.repo.GetAll(ctx)
}
