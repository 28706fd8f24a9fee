package repository

import (
	"context"

	"github.com/andikasp/gocommerce/internal/domain/entity"
)

// OrderRepository defines order persistence. The multi-write operations
// (Place, MarkPaidAndClearCart, CancelAndRestock) are all-or-nothing: a
// crash mid-way must never leave a partial checkout behind.
type OrderRepository interface {
	// Place persists the order, decrements stock for every line item
	// (failing the whole call with ErrInsufficientStock when any product
	// cannot cover its quantity), and clears the owning account's cart
	// when clearCart is set. Fills in o.ID.
	Place(ctx context.Context, o *entity.Order, clearCart bool) error

	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// ListByUser returns the account's orders, most recent first.
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
	// ListAll returns every order, most recent first. Admin only.
	ListAll(ctx context.Context) ([]entity.Order, error)

	// SetGatewayOrderID records the gateway-side reference on the order.
	SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error

	// MarkPaidAndClearCart flips the paid flag and empties the account's
	// cart in one transaction. Safe to retry.
	MarkPaidAndClearCart(ctx context.Context, orderID, userID string) error

	// UpdateStatus moves the order from one status to another, conditional
	// on it still being in from. Returns ErrStatusConflict otherwise.
	UpdateStatus(ctx context.Context, orderID string, from, to entity.OrderStatus) error

	// CancelAndRestock cancels the order and releases its reserved stock
	// back to the catalog in one transaction.
	CancelAndRestock(ctx context.Context, o *entity.Order) error
}
