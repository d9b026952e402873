package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
)

type UserService interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetVerifiedProfessionals(ctx context.Context) ([]models.User, error)
	GetAllProfessionals(ctx context.Context) ([]models.User, error)
	GetProfessionalsByCategory(ctx context.Context, category string) ([]models.User, error)
	GetCustomers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, input models.UpdateProfileInput) (*models.User, error)
	ToggleAvailability(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateVerificationStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.User, error)
	UpgradeToProfessional(ctx context.Context, id primitive.ObjectID, input models.UpgradeToProfessionalInput) (*models.User, error)
	AdminUpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	RegisterDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error
}

type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetProfessionals is the customer-facing listing. With ?category= it narrows
// to verified, available professionals in that category.
func (h *UserHandler) GetProfessionals(c *gin.Context) {
	var (
		users []models.User
		err   error
	)
	if category := c.Query("category"); category != "" {
		users, err = h.service.GetProfessionalsByCategory(c.Request.Context(), category)
	} else {
		users, err = h.service.GetVerifiedProfessionals(c.Request.Context())
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetAllProfessionals(c *gin.Context) {
	users, err := h.service.GetAllProfessionals(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetCustomers(c *gin.Context) {
	users, err := h.service.GetCustomers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ToggleAvailability(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.service.ToggleAvailability(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type verificationInput struct {
	Status string `json:"status" binding:"required"`
}

func (h *UserHandler) UpdateVerificationStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input verificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.service.UpdateVerificationStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpgradeToProfessional(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.UpgradeToProfessionalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.service.UpgradeToProfessional(c.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) AdminUpdateUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var fields bson.M
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.service.AdminUpdateUser(c.Request.Context(), id, fields)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

type deviceTokenInput struct {
	Token string `json:"token" binding:"required"`
}

func (h *UserHandler) RegisterDeviceToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input deviceTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.service.RegisterDeviceToken(c.Request.Context(), userID, input.Token); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
