package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/andikasp/gocommerce/internal/domain/entity"
	repo "github.com/andikasp/gocommerce/internal/domain/repository"
)

// casRetries bounds how often a cart mutation re-reads and retries after
// losing a version race against a concurrent writer.
const casRetries = 3

// CartService keeps the account-embedded cart map consistent. Every
// mutation is a read-mutate-conditional-write loop on the cart version, so
// two tabs hammering the same account cannot silently drop each other's
// updates.
type CartService struct {
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewCartService(users repo.UserRepository, logger *logrus.Logger) *CartService {
	return &CartService{Users: users, Logger: logger}
}

// AddItem increments the quantity for (productID, size) by one. The size
// is the empty string for products without a size dimension. Product
// existence is not checked here; unresolvable entries are dropped by the
// client when it flattens the map.
func (s *CartService) AddItem(ctx context.Context, userID, productID, size string) (entity.CartData, error) {
	if productID == "" {
		return nil, E(KindValidation, "product id is required")
	}
	return s.mutate(ctx, userID, func(cart entity.CartData) {
		cart.Add(productID, size, 1)
	})
}

// UpdateItem sets the quantity for (productID, size). Zero or negative
// quantities delete the entry.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID, size string, qty int) (entity.CartData, error) {
	if productID == "" {
		return nil, E(KindValidation, "product id is required")
	}
	return s.mutate(ctx, userID, func(cart entity.CartData) {
		cart.Set(productID, size, qty)
	})
}

// RemoveItem deletes the (productID, size) entry; an empty size removes
// the whole product entry.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID, size string) (entity.CartData, error) {
	if productID == "" {
		return nil, E(KindValidation, "product id is required")
	}
	return s.mutate(ctx, userID, func(cart entity.CartData) {
		cart.Remove(productID, size)
	})
}

// GetCart returns the raw nested map. Resolving product ids to catalog
// records is the caller's concern.
func (s *CartService) GetCart(ctx context.Context, userID string) (entity.CartData, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.userErr(err)
	}
	if u.CartData == nil {
		return entity.CartData{}, nil
	}
	return u.CartData, nil
}

// mutate runs fn against a fresh copy of the cart and writes it back
// conditionally, retrying on version conflicts.
func (s *CartService) mutate(ctx context.Context, userID string, fn func(entity.CartData)) (entity.CartData, error) {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		u, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			return nil, s.userErr(err)
		}

		cart := u.CartData.Clone()
		if cart == nil {
			cart = entity.CartData{}
		}
		fn(cart)

		err = s.Users.UpdateCart(ctx, userID, cart, u.CartVersion)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repo.ErrVersionConflict) {
			return nil, s.userErr(err)
		}
		lastErr = err
		if s.Logger != nil {
			s.Logger.WithField("user_id", userID).WithField("attempt", attempt+1).Debug("cart version conflict, retrying")
		}
	}
	return nil, Wrap(KindConflict, "cart was modified concurrently", lastErr)
}

func (s *CartService) userErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	return Wrap(KindInternal, "cart operation failed", err)
}
