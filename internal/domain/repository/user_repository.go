package repository

import (
	"context"

	"github.com/andikasp/gocommerce/internal/domain/entity"
)

// UserRepository defines account persistence. IDs are hex object ids.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persists OTP, verification, and password fields. It never
	// touches the cart; cart writes go through UpdateCart.
	Update(ctx context.Context, u *entity.User) error
	// UpdateCart replaces the embedded cart map, conditional on the
	// document still carrying expectedVersion. Returns ErrVersionConflict
	// when a concurrent writer got there first.
	UpdateCart(ctx context.Context, userID string, cart entity.CartData, expectedVersion int64) error
}
