package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/andikasp/gocommerce/internal/domain/entity"
	"github.com/andikasp/gocommerce/internal/domain/repository"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(UsersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.CartData == nil {
		u.CartData = entity.CartData{}
	}

	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var u entity.User
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// Update persists the account fields that change outside the cart path.
// The cart map and its version are deliberately excluded.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"name":                 u.Name,
		"password":             u.Password,
		"is_account_verified":  u.IsAccountVerified,
		"verify_otp":           u.VerifyOTP,
		"verify_otp_expire_at": u.VerifyOTPExpireAt,
		"reset_otp":            u.ResetOTP,
		"reset_otp_expire_at":  u.ResetOTPExpireAt,
		"updated_at":           u.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateCart is the compare-and-swap cart write: the replacement only
// lands when cart_version still equals expectedVersion, and bumps it.
func (r *UserRepository) UpdateCart(ctx context.Context, userID string, cart entity.CartData, expectedVersion int64) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return repository.ErrNotFound
	}
	if cart == nil {
		cart = entity.CartData{}
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "cart_version": expectedVersion},
		bson.M{
			"$set": bson.M{"cart_data": cart, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"cart_version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing account from a lost race.
		if n, cErr := r.col.CountDocuments(ctx, bson.M{"_id": oid}); cErr == nil && n == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrVersionConflict
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
