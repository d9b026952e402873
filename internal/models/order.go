package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusAccepted       OrderStatus = "Accepted"
	StatusPaymentPending OrderStatus = "PaymentPending"
	StatusCompleted      OrderStatus = "Completed"
	StatusCancelled      OrderStatus = "Cancelled"
)

// ValidStatus reports whether s is one of the five order states.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPaymentPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Customer      primitive.ObjectID  `bson:"customer" json:"customer"`
	Professional  *primitive.ObjectID `bson:"professional,omitempty" json:"professional,omitempty"`
	ServiceName   string              `bson:"serviceName" json:"serviceName"`
	Description   string              `bson:"description" json:"description"`
	Status        OrderStatus         `bson:"status" json:"status"`
	Price         float64             `bson:"price" json:"price"`
	ScheduledDate *time.Time          `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func (o *Order) Validate() error {
	if o.Customer.IsZero() || o.ServiceName == "" || o.Description == "" {
		return errors.New("missing order details")
	}
	return nil
}

type CreateOrderInput struct {
	Customer      string     `json:"customer"`
	Professional  string     `json:"professional"`
	ServiceName   string     `json:"serviceName" binding:"required"`
	Description   string     `json:"description" binding:"required"`
	Price         float64    `json:"price"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}

type UpdateStatusInput struct {
	Status OrderStatus `json:"status" binding:"required"`
	Price  *float64    `json:"price"`
}
