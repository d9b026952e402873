package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/utils/validator"
)

// Service is one entry of the bookable service catalog.
type Service struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name" validate:"required"`
	Icon      string             `bson:"icon" json:"icon"`
	MinPrice  float64            `bson:"minPrice" json:"minPrice" validate:"gte=0"`
	MaxPrice  float64            `bson:"maxPrice" json:"maxPrice" validate:"gte=0"`
	CreatedAt primitive.DateTime `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt primitive.DateTime `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (s Service) Validate() error {
	validate := validator.GetValidator()
	err := validate.Struct(s)
	if err != nil {
		errs := validator.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	return nil
}
