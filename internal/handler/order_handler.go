package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
)

type OrderService interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, price *float64) (*models.Order, error)
	GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetOrdersByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error)
	GetOrdersByProfessional(ctx context.Context, professionalID primitive.ObjectID) ([]models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
}

type OrderHandler struct {
	service OrderService
}

func NewOrderHandler(service OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	order := &models.Order{
		Customer:      userID,
		ServiceName:   input.ServiceName,
		Description:   input.Description,
		Price:         input.Price,
		ScheduledDate: input.ScheduledDate,
	}

	if input.Professional != "" {
		professionalID, err := primitive.ObjectIDFromHex(input.Professional)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid professional ID"})
			return
		}
		order.Professional = &professionalID
	}

	if err := h.service.CreateOrder(c.Request.Context(), order); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetMyOrders returns the caller's orders: bookings for customers, assigned
// jobs for professionals.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var (
		orders []models.Order
		err    error
	)
	if c.GetString("role") == models.RoleProfessional {
		orders, err = h.service.GetOrdersByProfessional(c.Request.Context(), userID)
	} else {
		orders, err = h.service.GetOrdersByCustomer(c.Request.Context(), userID)
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input models.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, input.Status, input.Price)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.service.GetAllOrders(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
