package models

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidID         = errors.New("invalid id")
	ErrValidation        = errors.New("validation error")
	ErrDuplicate         = errors.New("duplicate")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrOrderNotCompleted = errors.New("can only review completed orders")
	ErrAlreadyReviewed   = errors.New("order already reviewed")
	ErrForbidden         = errors.New("access denied")
)
