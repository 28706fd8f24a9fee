package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andikasp/gocommerce/internal/domain/entity"
)

type orderFixture struct {
	svc      *OrderService
	users    *fakeUserRepo
	products *fakeProductRepo
	orders   *fakeOrderRepo
	gateway  *fakeGateway
	userID   string
	shoe     *entity.Product
	mug      *entity.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	users := newFakeUserRepo()
	products := newFakeProductRepo()
	orders := newFakeOrderRepo(users, products)
	gw := newFakeGateway()

	shoe := products.addProduct(&entity.Product{
		Name: "Canvas Sneakers", Price: 40, Image: []string{"img/shoe.jpg"},
		Sizes: []string{"9", "10"}, Stock: 5, Date: time.Now(),
	})
	mug := products.addProduct(&entity.Product{
		Name: "Coffee Mug", Price: 10, Stock: 2, Date: time.Now(),
	})

	u := users.addUser(&entity.User{Name: "demo", Email: "demo@example.com"})
	u.CartData.Add(shoe.ID.Hex(), "9", 2)
	u.CartData.Add(mug.ID.Hex(), "", 1)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return &orderFixture{
		svc:      NewOrderService(orders, users, products, gw, "INR", logger),
		users:    users,
		products: products,
		orders:   orders,
		gateway:  gw,
		userID:   u.ID.Hex(),
		shoe:     shoe,
		mug:      mug,
	}
}

func testAddress() entity.Address {
	return entity.Address{
		FirstName: "Demo", Email: "demo@example.com", Street: "1 Main St",
		City: "Mumbai", Zipcode: "400001", Country: "IN", Phone: "9999999999",
	}
}

func TestPlaceCOD(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.PlaceCOD(ctx, f.userID, testAddress())
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.Nil(t, res.GatewayOrder)

	o := res.Order
	assert.Equal(t, entity.StatusPlaced, o.Status)
	assert.Equal(t, entity.PaymentCOD, o.PaymentMethod)
	assert.False(t, o.Payment)
	assert.Len(t, o.Items, 2)
	// 2 x 40 + 1 x 10 + delivery fee
	assert.Equal(t, 90.0+deliveryFee, o.Amount)

	// stock decremented
	shoe, err := f.products.GetByID(ctx, f.shoe.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 3, shoe.Stock)

	// cart cleared
	u, err := f.users.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, u.CartData)
}

func TestPlaceCODEmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceCOD(ctx, f.userID, testAddress())
	require.NoError(t, err)

	_, err = f.svc.PlaceCOD(ctx, f.userID, testAddress())
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestPlaceCODInsufficientStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	u, err := f.users.GetByID(ctx, f.userID)
	require.NoError(t, err)
	u.CartData.Set(f.mug.ID.Hex(), "", 3) // only 2 in stock
	require.NoError(t, f.users.UpdateCart(ctx, f.userID, u.CartData, u.CartVersion))

	_, err = f.svc.PlaceCOD(ctx, f.userID, testAddress())
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// nothing was decremented, nothing was cleared
	shoe, _ := f.products.GetByID(ctx, f.shoe.ID.Hex())
	assert.Equal(t, 5, shoe.Stock)
	u, _ = f.users.GetByID(ctx, f.userID)
	assert.NotEmpty(t, u.CartData)
}

func TestPlaceRazorpay(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.PlaceRazorpay(ctx, f.userID, testAddress())
	require.NoError(t, err)
	require.NotNil(t, res.GatewayOrder)

	o := res.Order
	assert.Equal(t, entity.PaymentRazorpay, o.PaymentMethod)
	assert.False(t, o.Payment)
	assert.Equal(t, res.GatewayOrder.ID, o.GatewayOrderID)
	// amount converted to minor units, receipt ties back to the order
	assert.Equal(t, int64((90+deliveryFee)*100), res.GatewayOrder.Amount)
	assert.Equal(t, "INR", res.GatewayOrder.Currency)
	assert.Equal(t, o.ID.Hex(), res.GatewayOrder.Receipt)

	// stock reserved but cart kept until payment confirms
	shoe, _ := f.products.GetByID(ctx, f.shoe.ID.Hex())
	assert.Equal(t, 3, shoe.Stock)
	u, _ := f.users.GetByID(ctx, f.userID)
	assert.NotEmpty(t, u.CartData)
}

func TestPlaceRazorpayGatewayFailureCompensates(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.gateway.createErr = errors.New("gateway down")
	_, err := f.svc.PlaceRazorpay(ctx, f.userID, testAddress())
	require.Error(t, err)
	assert.Equal(t, KindGateway, KindOf(err))

	// reserved stock was released and the local order cancelled
	shoe, _ := f.products.GetByID(ctx, f.shoe.ID.Hex())
	assert.Equal(t, 5, shoe.Stock)
	orders, err := f.orders.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.StatusCancelled, orders[0].Status)
}

func TestConfirmRazorpayPaid(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.PlaceRazorpay(ctx, f.userID, testAddress())
	require.NoError(t, err)
	f.gateway.markPaid(res.GatewayOrder.ID)

	o, err := f.svc.ConfirmRazorpay(ctx, f.userID, res.GatewayOrder.ID)
	require.NoError(t, err)
	assert.True(t, o.Payment)

	u, _ := f.users.GetByID(ctx, f.userID)
	assert.Empty(t, u.CartData)

	// confirming twice is idempotent
	o, err = f.svc.ConfirmRazorpay(ctx, f.userID, res.GatewayOrder.ID)
	require.NoError(t, err)
	assert.True(t, o.Payment)
}

func TestConfirmRazorpayUnpaid(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.PlaceRazorpay(ctx, f.userID, testAddress())
	require.NoError(t, err)

	// gateway still reports "created"
	_, err = f.svc.ConfirmRazorpay(ctx, f.userID, res.GatewayOrder.ID)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	// no state was mutated
	stored, err := f.orders.GetByID(ctx, res.Order.ID.Hex())
	require.NoError(t, err)
	assert.False(t, stored.Payment)
	u, _ := f.users.GetByID(ctx, f.userID)
	assert.NotEmpty(t, u.CartData)
}

func TestConfirmRazorpayWrongUser(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.PlaceRazorpay(ctx, f.userID, testAddress())
	require.NoError(t, err)
	f.gateway.markPaid(res.GatewayOrder.ID)

	other := f.users.addUser(&entity.User{Name: "other", Email: "other@example.com"})
	_, err = f.svc.ConfirmRazorpay(ctx, other.ID.Hex(), res.GatewayOrder.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestUserOrdersIsolation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceCOD(ctx, f.userID, testAddress())
	require.NoError(t, err)

	other := f.users.addUser(&entity.User{Name: "other", Email: "other@example.com"})
	other.CartData.Add(f.shoe.ID.Hex(), "10", 1)
	_, err = f.svc.PlaceCOD(ctx, other.ID.Hex(), testAddress())
	require.NoError(t, err)

	mine, err := f.svc.UserOrders(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.userID, mine[0].UserID.Hex())

	all, err := f.svc.AllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.PlaceCOD(ctx, f.userID, testAddress())
	require.NoError(t, err)
	id := res.Order.ID.Hex()

	o, err := f.svc.UpdateStatus(ctx, id, "Packing")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPacking, o.Status)

	// skipping ahead is rejected
	_, err = f.svc.UpdateStatus(ctx, id, "Delivered")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// unknown status string is a validation error
	_, err = f.svc.UpdateStatus(ctx, id, "Returned")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	// setting the current status again is a no-op
	o, err = f.svc.UpdateStatus(ctx, id, "Packing")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPacking, o.Status)

	_, err = f.svc.UpdateStatus(ctx, "64b000000000000000000000", "Packing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestUpdateStatusFullPipeline(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.PlaceCOD(ctx, f.userID, testAddress())
	require.NoError(t, err)
	id := res.Order.ID.Hex()

	for _, next := range []entity.OrderStatus{
		entity.StatusPacking,
		entity.StatusShipped,
		entity.StatusOutForDelivery,
		entity.StatusDelivered,
	} {
		o, err := f.svc.UpdateStatus(ctx, id, string(next))
		require.NoError(t, err, next)
		assert.Equal(t, next, o.Status)
	}

	// delivered is terminal
	_, err = f.svc.UpdateStatus(ctx, id, "Cancelled")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestOrderItemsSnapshotCatalog(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.PlaceCOD(ctx, f.userID, testAddress())
	require.NoError(t, err)

	// later catalog edits must not leak into the stored order
	f.products.products[f.shoe.ID.Hex()].Price = 99
	stored, err := f.orders.GetByID(ctx, res.Order.ID.Hex())
	require.NoError(t, err)
	for _, it := range stored.Items {
		if it.ProductID == f.shoe.ID {
			assert.Equal(t, 40.0, it.Price)
			assert.Equal(t, "img/shoe.jpg", it.Image)
		}
	}
}
