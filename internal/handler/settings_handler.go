package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"home-services-app/internal/models"
)

type SettingsService interface {
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	UpsertSetting(ctx context.Context, key, value string) (*models.Setting, error)
	GetAllSettings(ctx context.Context) ([]models.Setting, error)
}

type SettingsHandler struct {
	service SettingsService
}

func NewSettingsHandler(service SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) GetSetting(c *gin.Context) {
	setting, err := h.service.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}

type settingInput struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func (h *SettingsHandler) UpsertSetting(c *gin.Context) {
	var input settingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	setting, err := h.service.UpsertSetting(c.Request.Context(), input.Key, input.Value)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}

func (h *SettingsHandler) GetAllSettings(c *gin.Context) {
	settings, err := h.service.GetAllSettings(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
