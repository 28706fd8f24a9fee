package repository

import "errors"

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when creating an account whose email
	// is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrVersionConflict is returned when a conditional cart write lost
	// the race against a concurrent mutation.
	ErrVersionConflict = errors.New("cart version conflict")
	// ErrInsufficientStock aborts a checkout whose stock decrement would
	// drive a product below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStatusConflict is returned when a guarded status update found the
	// order in a different state than expected.
	ErrStatusConflict = errors.New("order status changed concurrently")
)
