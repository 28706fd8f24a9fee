package application

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andikasp/gocommerce/internal/domain/entity"
)

func newCartFixture(t *testing.T) (*CartService, *fakeUserRepo, string) {
	t.Helper()
	users := newFakeUserRepo()
	u := users.addUser(&entity.User{Name: "demo", Email: "demo@example.com"})
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewCartService(users, logger), users, u.ID.Hex()
}

func TestCartAddItem(t *testing.T) {
	svc, _, uid := newCartFixture(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, uid, "shoe-1", "9")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Quantity("shoe-1", "9"))

	cart, err = svc.AddItem(ctx, uid, "shoe-1", "9")
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Quantity("shoe-1", "9"))

	// sizeless product
	cart, err = svc.AddItem(ctx, uid, "mug-1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Quantity("mug-1", ""))
}

func TestCartAddItemValidation(t *testing.T) {
	svc, _, uid := newCartFixture(t)

	_, err := svc.AddItem(context.Background(), uid, "", "9")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCartUpdateItem(t *testing.T) {
	svc, _, uid := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateItem(ctx, uid, "shoe-1", "9", 3)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Quantity("shoe-1", "9"))

	// zero quantity deletes silently
	cart, err = svc.UpdateItem(ctx, uid, "shoe-1", "9", 0)
	require.NoError(t, err)
	assert.Empty(t, cart)

	// deleting what is already gone is still fine
	cart, err = svc.UpdateItem(ctx, uid, "shoe-1", "9", -2)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCartRemoveItem(t *testing.T) {
	svc, _, uid := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateItem(ctx, uid, "shoe-1", "9", 2)
	require.NoError(t, err)
	_, err = svc.UpdateItem(ctx, uid, "shoe-1", "10", 1)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, uid, "shoe-1", "9")
	require.NoError(t, err)
	assert.Equal(t, 0, cart.Quantity("shoe-1", "9"))
	assert.Equal(t, 1, cart.Quantity("shoe-1", "10"))

	// empty size wipes the whole product entry
	cart, err = svc.RemoveItem(ctx, uid, "shoe-1", "")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCartGetUnknownUser(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	_, err := svc.GetCart(context.Background(), "64b000000000000000000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestCartMutateRetriesOnVersionConflict(t *testing.T) {
	svc, users, uid := newCartFixture(t)

	// lose the race twice, succeed on the third attempt
	users.conflictsLeft = 2
	cart, err := svc.AddItem(context.Background(), uid, "shoe-1", "9")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Quantity("shoe-1", "9"))
	assert.Equal(t, 3, users.updateCalls)
}

func TestCartMutateGivesUpAfterRetries(t *testing.T) {
	svc, users, uid := newCartFixture(t)

	users.conflictsLeft = casRetries
	_, err := svc.AddItem(context.Background(), uid, "shoe-1", "9")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, casRetries, users.updateCalls)
}

func TestCartVersionBumpsPerWrite(t *testing.T) {
	svc, users, uid := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, uid, "a", "")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, uid, "b", "")
	require.NoError(t, err)

	u, err := users.GetByID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.CartVersion)
}
