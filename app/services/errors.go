package services

import "errors"

// Sentinel errors mapped to HTTP statuses at the controller boundary.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("not allowed to access this resource")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyOrder         = errors.New("order must contain at least one product")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrInvalidTransition  = errors.New("illegal status transition")
	ErrAlreadyCancelled   = errors.New("order is already cancelled")
	ErrOrderDelivered     = errors.New("cannot cancel a delivered order")
)
