package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Order        primitive.ObjectID `bson:"order" json:"order"`
	Customer     primitive.ObjectID `bson:"customer" json:"customer"`
	Professional primitive.ObjectID `bson:"professional" json:"professional"`
	Rating       int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment      string             `bson:"comment" json:"comment"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

type CreateReviewInput struct {
	OrderID    string `json:"orderId" binding:"required"`
	CustomerID string `json:"customerId"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

// ReviewStatus is the reviewed-yet answer for a single order.
type ReviewStatus struct {
	Reviewed bool    `json:"reviewed"`
	Review   *Review `json:"review,omitempty"`
}
