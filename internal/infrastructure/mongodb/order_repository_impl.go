package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/andikasp/gocommerce/internal/domain/entity"
	"github.com/andikasp/gocommerce/internal/domain/repository"
)

type OrderRepository struct {
	db       *mongo.Database
	orders   *mongo.Collection
	products *mongo.Collection
	users    *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		db:       db,
		orders:   db.Collection(OrdersCollection),
		products: db.Collection(ProductsCollection),
		users:    db.Collection(UsersCollection),
	}
}

// withTxn runs fn inside a session transaction so the checkout writes are
// all-or-nothing.
func (r *OrderRepository) withTxn(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// decrementStock reserves qty units of productID, refusing to go below zero.
func (r *OrderRepository) decrementStock(ctx context.Context, productID primitive.ObjectID, qty int) error {
	res, err := r.products.UpdateOne(ctx,
		bson.M{"_id": productID, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrInsufficientStock
	}
	return nil
}

func (r *OrderRepository) clearCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$set": bson.M{"cart_data": entity.CartData{}, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"cart_version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *OrderRepository) Place(ctx context.Context, o *entity.Order, clearCart bool) error {
	if o.Date.IsZero() {
		o.Date = time.Now().UTC()
	}
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}

	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		for _, item := range o.Items {
			if err := r.decrementStock(sc, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if _, err := r.orders.InsertOne(sc, o); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		if clearCart {
			return r.clearCart(sc, o.UserID)
		}
		return nil
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var o entity.Order
	if err := r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.list(ctx, bson.M{"user_id": oid})
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]entity.Order, error) {
	cur, err := r.orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	orders := []entity.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.orders.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"gateway_order_id": gatewayOrderID}})
	if err != nil {
		return fmt.Errorf("failed to set gateway reference: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) MarkPaidAndClearCart(ctx context.Context, orderID, userID string) error {
	ooid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return repository.ErrNotFound
	}
	uoid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return repository.ErrNotFound
	}

	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.orders.UpdateOne(sc, bson.M{"_id": ooid}, bson.M{"$set": bson.M{"payment": true}})
		if err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		return r.clearCart(sc, uoid)
	})
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to entity.OrderStatus) error {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		if n, cErr := r.orders.CountDocuments(ctx, bson.M{"_id": oid}); cErr == nil && n == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrStatusConflict
	}
	return nil
}

func (r *OrderRepository) CancelAndRestock(ctx context.Context, o *entity.Order) error {
	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.orders.UpdateOne(sc,
			bson.M{"_id": o.ID, "status": o.Status},
			bson.M{"$set": bson.M{"status": entity.StatusCancelled}},
		)
		if err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrStatusConflict
		}
		for _, item := range o.Items {
			if _, err := r.products.UpdateOne(sc,
				bson.M{"_id": item.ProductID},
				bson.M{"$inc": bson.M{"stock": item.Quantity}},
			); err != nil {
				return fmt.Errorf("failed to release stock: %w", err)
			}
		}
		return nil
	})
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
