package application

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/andikasp/gocommerce/internal/domain/entity"
	repo "github.com/andikasp/gocommerce/internal/domain/repository"
	"github.com/andikasp/gocommerce/pkg/payment"
)

// deliveryFee is a flat charge added to every order total.
const deliveryFee = 50

// OrderService handles checkout for both payment methods, order listing,
// and the admin status pipeline.
type OrderService struct {
	Orders   repo.OrderRepository
	Users    repo.UserRepository
	Products repo.ProductRepository
	Gateway  payment.Gateway
	Currency string
	Logger   *logrus.Logger
}

func NewOrderService(orders repo.OrderRepository, users repo.UserRepository, products repo.ProductRepository, gw payment.Gateway, currency string, logger *logrus.Logger) *OrderService {
	return &OrderService{
		Orders:   orders,
		Users:    users,
		Products: products,
		Gateway:  gw,
		Currency: currency,
		Logger:   logger,
	}
}

// CheckoutResult is returned by both placement flows. GatewayOrder is only
// set for the Razorpay flow; the client uses it to open the payment widget.
type CheckoutResult struct {
	Order        *entity.Order  `json:"order"`
	GatewayOrder *payment.Order `json:"gateway_order,omitempty"`
}

// PlaceCOD places a cash-on-delivery order: snapshot the cart into order
// items, decrement stock, and clear the cart in a single transaction.
func (s *OrderService) PlaceCOD(ctx context.Context, userID string, addr entity.Address) (*CheckoutResult, error) {
	o, err := s.buildOrder(ctx, userID, addr, entity.PaymentCOD)
	if err != nil {
		return nil, err
	}
	if err := s.Orders.Place(ctx, o, true); err != nil {
		return nil, placeErr(err)
	}
	return &CheckoutResult{Order: o}, nil
}

// PlaceRazorpay reserves stock for the order and creates the matching
// gateway order. The cart is left intact until payment is confirmed. If the
// gateway call fails, the local order is cancelled and stock is restored.
func (s *OrderService) PlaceRazorpay(ctx context.Context, userID string, addr entity.Address) (*CheckoutResult, error) {
	if s.Gateway == nil {
		return nil, E(KindGateway, "payment gateway is not configured")
	}
	o, err := s.buildOrder(ctx, userID, addr, entity.PaymentRazorpay)
	if err != nil {
		return nil, err
	}
	if err := s.Orders.Place(ctx, o, false); err != nil {
		return nil, placeErr(err)
	}

	amountMinor := int64(math.Round(o.Amount * 100))
	gw, err := s.Gateway.CreateOrder(ctx, amountMinor, s.Currency, o.ID.Hex())
	if err != nil {
		s.compensate(ctx, o, err)
		return nil, Wrap(KindGateway, "failed to create payment order", err)
	}
	if err := s.Orders.SetGatewayOrderID(ctx, o.ID.Hex(), gw.ID); err != nil {
		s.compensate(ctx, o, err)
		return nil, Wrap(KindInternal, "failed to record gateway order", err)
	}
	o.GatewayOrderID = gw.ID
	return &CheckoutResult{Order: o, GatewayOrder: gw}, nil
}

// ConfirmRazorpay verifies a gateway order after the client reports payment.
// Only a paid gateway order mutates state; anything else leaves the order
// unpaid so the client can retry.
func (s *OrderService) ConfirmRazorpay(ctx context.Context, userID, gatewayOrderID string) (*entity.Order, error) {
	if s.Gateway == nil {
		return nil, E(KindGateway, "payment gateway is not configured")
	}
	gw, err := s.Gateway.FetchOrder(ctx, gatewayOrderID)
	if err != nil {
		return nil, Wrap(KindGateway, "failed to verify payment", err)
	}
	if gw.Status != payment.StatusPaid {
		return nil, E(KindValidation, "payment not completed")
	}

	// The gateway receipt carries the local order id.
	o, err := s.Orders.GetByID(ctx, gw.Receipt)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, Wrap(KindInternal, "failed to fetch order", err)
	}
	if o.UserID.Hex() != userID {
		return nil, ErrOrderNotFound
	}
	if o.Payment {
		return o, nil
	}
	if err := s.Orders.MarkPaidAndClearCart(ctx, o.ID.Hex(), userID); err != nil {
		return nil, Wrap(KindInternal, "failed to mark order paid", err)
	}
	o.Payment = true
	return o, nil
}

// UserOrders lists the caller's own orders, newest first.
func (s *OrderService) UserOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	orders, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, Wrap(KindInternal, "failed to list orders", err)
	}
	return orders, nil
}

// AllOrders is the admin view across every user.
func (s *OrderService) AllOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.Orders.ListAll(ctx)
	if err != nil {
		return nil, Wrap(KindInternal, "failed to list orders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order along the fulfilment pipeline. Transitions
// outside the allowed table are rejected before touching storage.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*entity.Order, error) {
	next, ok := entity.ParseOrderStatus(status)
	if !ok {
		return nil, E(KindValidation, "unknown order status")
	}
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, Wrap(KindInternal, "failed to fetch order", err)
	}
	if o.Status == next {
		return o, nil
	}
	if !o.Status.CanTransition(next) {
		return nil, E(KindConflict, "invalid status transition from "+string(o.Status))
	}
	if err := s.Orders.UpdateStatus(ctx, orderID, o.Status, next); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, repo.ErrStatusConflict):
			return nil, E(KindConflict, "order status changed concurrently")
		default:
			return nil, Wrap(KindInternal, "failed to update order status", err)
		}
	}
	o.Status = next
	return o, nil
}

// buildOrder snapshots the user's cart into order items priced against the
// live catalog. Cart entries whose product no longer exists are skipped.
func (s *OrderService) buildOrder(ctx context.Context, userID string, addr entity.Address, method string) (*entity.Order, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, Wrap(KindInternal, "failed to fetch user", err)
	}
	if len(u.CartData) == 0 {
		return nil, E(KindValidation, "cart is empty")
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, E(KindValidation, "invalid user id")
	}

	var items []entity.OrderItem
	var amount float64
	for pid, sizes := range u.CartData {
		p, err := s.Products.GetByID(ctx, pid)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, Wrap(KindInternal, "failed to fetch product", err)
		}
		var image string
		if len(p.Image) > 0 {
			image = p.Image[0]
		}
		for size, qty := range sizes {
			if qty <= 0 {
				continue
			}
			items = append(items, entity.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Image:     image,
				Size:      size,
				Quantity:  qty,
			})
			amount += p.Price * float64(qty)
		}
	}
	if len(items) == 0 {
		return nil, E(KindValidation, "cart has no purchasable items")
	}

	return &entity.Order{
		UserID:        uid,
		Items:         items,
		Amount:        amount + deliveryFee,
		Address:       addr,
		Status:        entity.StatusPlaced,
		PaymentMethod: method,
		Payment:       false,
		Date:          time.Now().UTC(),
	}, nil
}

// compensate cancels a pending gateway order and restores its stock after a
// gateway failure. Best effort; a failed compensation is logged and left for
// manual review.
func (s *OrderService) compensate(ctx context.Context, o *entity.Order, cause error) {
	if err := s.Orders.CancelAndRestock(ctx, o); err != nil && s.Logger != nil {
		s.Logger.WithError(err).
			WithField("order_id", o.ID.Hex()).
			WithField("cause", cause.Error()).
			Error("failed to cancel and restock after gateway failure")
	}
}

func placeErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrInsufficientStock):
		return Wrap(KindConflict, "insufficient stock for one or more items", err)
	case errors.Is(err, repo.ErrNotFound):
		return ErrUserNotFound
	default:
		return Wrap(KindInternal, "failed to place order", err)
	}
}
