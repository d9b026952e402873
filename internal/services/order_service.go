package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error)
	GetByProfessional(ctx context.Context, professionalID primitive.ObjectID) ([]models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
}

// Cache is the slice of the Redis wrapper the services use.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type OrderService struct {
	repo     OrderRepository
	notifier Notifier
	cache    Cache
}

func NewOrderService(repo OrderRepository, notifier Notifier, cache Cache) *OrderService {
	return &OrderService{repo: repo, notifier: notifier, cache: cache}
}

// CreateOrder persists a new order in the Pending state and emits the
// creation notifications. Notification failures never fail the creation.
func (s *OrderService) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := order.Validate(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	order.Status = models.StatusPending
	if err := s.repo.Create(ctx, order); err != nil {
		return err
	}

	s.invalidateOrderCaches(ctx, order)

	s.notifier.Notify(ctx, order.Customer,
		"Order Placed",
		fmt.Sprintf("Your booking for %s has been received. We will notify you once a professional accepts it.", order.ServiceName),
		models.TypeOrder, &order.ID)

	if order.Professional != nil {
		s.notifier.Notify(ctx, *order.Professional,
			"New Service Request",
			fmt.Sprintf("You have a new %s request. Check your jobs to accept it.", order.ServiceName),
			models.TypeOrder, &order.ID)
	}

	return nil
}

// UpdateStatus is the single entry point for every order status change:
// professional accept, payment submission, admin approval, cancellation and
// admin moderation. It validates the requested status, persists it together
// with the price when one is supplied, and emits the per-state notifications
// when the status actually changed.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, price *float64) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := order.Status != status

	// The payment submission carries the amount the professional collected.
	if statusChanged && status == models.StatusPaymentPending {
		if price == nil || *price <= 0 {
			return nil, fmt.Errorf("%w: price is required to request payment", models.ErrValidation)
		}
	}

	if price != nil {
		order.Price = *price
	}
	order.Status = status

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.invalidateOrderCaches(ctx, order)

	if statusChanged {
		s.notifyStatusChange(ctx, order)
	}

	return order, nil
}

// notifyStatusChange emits the state-specific notifications, customer first.
func (s *OrderService) notifyStatusChange(ctx context.Context, order *models.Order) {
	switch order.Status {
	case models.StatusAccepted:
		s.notifier.Notify(ctx, order.Customer,
			"Order Accepted!",
			fmt.Sprintf("A professional has accepted your %s request and will contact you shortly.", order.ServiceName),
			models.TypeOrder, &order.ID)
		if order.Professional != nil {
			s.notifier.Notify(ctx, *order.Professional,
				"Order Confirmed",
				fmt.Sprintf("You accepted the %s order. Please reach out to the customer.", order.ServiceName),
				models.TypeOrder, &order.ID)
		}

	case models.StatusPaymentPending:
		s.notifier.Notify(ctx, order.Customer,
			"Payment Required",
			fmt.Sprintf("Please pay %.2f for your %s service. The payment will be confirmed by our team.", order.Price, order.ServiceName),
			models.TypePayment, &order.ID)
		if order.Professional != nil {
			s.notifier.Notify(ctx, *order.Professional,
				"Awaiting Payment",
				fmt.Sprintf("Payment of %.2f for the %s order was submitted and is awaiting approval.", order.Price, order.ServiceName),
				models.TypePayment, &order.ID)
		}

	case models.StatusCompleted:
		s.notifier.Notify(ctx, order.Customer,
			"Order Completed!",
			fmt.Sprintf("Your %s order is complete. Please rate your professional.", order.ServiceName),
			models.TypeOrder, &order.ID)
		if order.Professional != nil {
			s.notifier.Notify(ctx, *order.Professional,
				"Payment Received!",
				fmt.Sprintf("Payment of %.2f for the %s order has been approved.", order.Price, order.ServiceName),
				models.TypePayment, &order.ID)
		}

	case models.StatusCancelled:
		s.notifier.Notify(ctx, order.Customer,
			"Order Cancelled",
			fmt.Sprintf("Your %s order has been cancelled.", order.ServiceName),
			models.TypeOrder, &order.ID)
		if order.Professional != nil {
			s.notifier.Notify(ctx, *order.Professional,
				"Order Cancelled",
				fmt.Sprintf("The %s order has been cancelled.", order.ServiceName),
				models.TypeOrder, &order.ID)
		}

	default:
		s.notifier.Notify(ctx, order.Customer,
			"Order Status Updated",
			fmt.Sprintf("The status of your %s order is now %s.", order.ServiceName, order.Status),
			models.TypeOrder, &order.ID)
	}
}

func (s *OrderService) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrderService) GetOrdersByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	cacheKey := fmt.Sprintf("orders_by_customer:%s", customerID.Hex())

	var cached []models.Order
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	orders, err := s.repo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, orders, 5*time.Minute); err != nil {
		log.Printf("Failed to cache orders for customer %s: %v", customerID.Hex(), err)
	}

	return orders, nil
}

func (s *OrderService) GetOrdersByProfessional(ctx context.Context, professionalID primitive.ObjectID) ([]models.Order, error) {
	return s.repo.GetByProfessional(ctx, professionalID)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.repo.GetAll(ctx)
}

// DeleteOrder removes an order entirely. Admin moderation only.
func (s *OrderService) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateOrderCaches(ctx, order)
	return nil
}

func (s *OrderService) invalidateOrderCaches(ctx context.Context, order *models.Order) {
	cacheKey := fmt.Sprintf("orders_by_customer:%s", order.Customer.Hex())
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		log.Printf("Failed to invalidate cache: %v", err)
	}
}
