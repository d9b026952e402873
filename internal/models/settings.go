package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Setting is a single key/value pair of app-wide configuration
// (support phone, banner text and the like), editable from the admin panel.
type Setting struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key   string             `bson:"key" json:"key" validate:"required"`
	Value string             `bson:"value" json:"value" validate:"required"`
}
