package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, orderID, customerID primitive.ObjectID, rating int, comment string) (*models.Review, error)
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
	ReviewStatus(ctx context.Context, orderID primitive.ObjectID) (*models.ReviewStatus, error)
	GetReviewsForProfessional(ctx context.Context, professionalID primitive.ObjectID) ([]models.Review, error)
	GetAllReviews(ctx context.Context) ([]models.Review, error)
}

type ReviewHandler struct {
	service ReviewService
}

func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	orderID, err := primitive.ObjectIDFromHex(input.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	review, err := h.service.SubmitReview(c.Request.Context(), orderID, userID, input.Rating, input.Comment)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ReviewStatus reports whether an order has a review yet.
func (h *ReviewHandler) ReviewStatus(c *gin.Context) {
	orderID, ok := objectIDParam(c, "orderId")
	if !ok {
		return
	}

	status, err := h.service.ReviewStatus(c.Request.Context(), orderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *ReviewHandler) GetReviewsForProfessional(c *gin.Context) {
	professionalID, ok := objectIDParam(c, "professionalId")
	if !ok {
		return
	}

	reviews, err := h.service.GetReviewsForProfessional(c.Request.Context(), professionalID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetAllReviews(c *gin.Context) {
	reviews, err := h.service.GetAllReviews(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
