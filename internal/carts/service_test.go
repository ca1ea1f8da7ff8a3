package carts

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamotest"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/model"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/products"
)

const table = "carts"

type catalog map[string]products.Product

func (c catalog) Lookup(_ context.Context, id string) (*products.Product, error) {
	p, ok := c[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func newService(t *testing.T) (*Service, *dynamotest.Fake) {
	t.Helper()
	db := dynamotest.New().AddTable(table, "owner_key", nil)
	cat := catalog{
		"A": {ProductID: "A", Name: "Tee", Price: 20, Images: []products.Image{{URL: "a.png"}}},
		"B": {ProductID: "B", Name: "Cap", Price: 7.5},
	}
	return NewService(NewStore(db, table), cat), db
}

func assertTotal(t *testing.T, c *Cart) {
	t.Helper()
	assert.Equal(t, model.Total(c.Products), c.TotalPrice)
}

func TestAddItem(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	me := User{ID: "u1"}

	c, err := svc.AddItem(ctx, me, AddItem{ProductID: "A", Quantity: 1, Size: "M", Color: "Black"})
	require.NoError(t, err)
	require.Len(t, c.Products, 1)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "a.png", c.Products[0].Image)
	assertTotal(t, c)

	c, err = svc.AddItem(ctx, me, AddItem{ProductID: "A", Quantity: 2, Size: "M", Color: "Black"})
	require.NoError(t, err)
	require.Len(t, c.Products, 1)
	assert.Equal(t, 3, c.Products[0].Quantity)
	assert.Equal(t, 60.0, c.TotalPrice)

	c, err = svc.AddItem(ctx, me, AddItem{ProductID: "A", Quantity: 1, Size: "L", Color: "Black"})
	require.NoError(t, err)
	assert.Len(t, c.Products, 2, "a different size is a different line")

	c, err = svc.AddItem(ctx, me, AddItem{ProductID: "B", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 102.5, c.TotalPrice)
	assertTotal(t, c)

	stored, err := svc.Resolve(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, c.TotalPrice, stored.TotalPrice)
}

func TestAddItem_Errors(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, Guest{Token: "g"}, AddItem{ProductID: "missing", Quantity: 1})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.AddItem(ctx, Guest{Token: "g"}, AddItem{ProductID: "A", Quantity: 0})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Equal(t, 0, db.Count(table))
}

func TestUpdateQuantity(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	g := Guest{Token: "g1"}

	_, err := svc.UpdateQuantity(ctx, g, "A", "", "", 2)
	require.Error(t, err)
	assert.Equal(t, "Cart not found", err.Error())

	_, err = svc.AddItem(ctx, g, AddItem{ProductID: "A", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, g, "B", "", "", 2)
	require.Error(t, err)
	assert.Equal(t, "Product not found in cart", err.Error())

	c, err := svc.UpdateQuantity(ctx, g, "A", "", "", 5)
	require.NoError(t, err)
	assert.Equal(t, 100.0, c.TotalPrice)

	c, err = svc.UpdateQuantity(ctx, g, "A", "", "", 0)
	require.NoError(t, err)
	assert.Empty(t, c.Products)
	assert.NotNil(t, c.Products)
	assert.Equal(t, 0.0, c.TotalPrice)
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	me := User{ID: "u1"}

	_, err := svc.AddItem(ctx, me, AddItem{ProductID: "A", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, me, AddItem{ProductID: "B", Quantity: 2})
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, me, "A", "", "")
	require.NoError(t, err)
	require.Len(t, c.Products, 1)
	assert.Equal(t, 15.0, c.TotalPrice)

	_, err = svc.RemoveItem(ctx, me, "A", "", "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMerge_Fold(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, User{ID: "u1"}, AddItem{ProductID: "A", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, Guest{Token: "g1"}, AddItem{ProductID: "A", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, Guest{Token: "g1"}, AddItem{ProductID: "B", Quantity: 1})
	require.NoError(t, err)

	c, err := svc.Merge(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, c.Products, 2)
	assert.Equal(t, 3, c.Products[0].Quantity)
	assertTotal(t, c)
	assert.Equal(t, 1, db.Count(table), "guest cart is deleted")
	assert.Equal(t, 1, db.Calls["TransactWriteItems"])

	// a second merge finds only the user cart
	again, err := svc.Merge(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, c.TotalPrice, again.TotalPrice)
}

func TestMerge_ReOwn(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	guestCart, err := svc.AddItem(ctx, Guest{Token: "g1"}, AddItem{ProductID: "A", Quantity: 2, Size: "S"})
	require.NoError(t, err)

	c, err := svc.Merge(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Empty(t, c.GuestID)
	assert.Equal(t, guestCart.Products, c.Products)

	var stored Cart
	ok, err := db.Load(table, "user#u1", &stored)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 40.0, stored.TotalPrice)
	ok, err = db.Load(table, "guest#g1", &stored)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMerge_Errors(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	_, err := svc.Merge(ctx, "nope", "u1")
	require.Error(t, err)
	assert.Equal(t, "Guest cart not found", err.Error())

	_, err = svc.AddItem(ctx, Guest{Token: "g1"}, AddItem{ProductID: "A", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.RemoveItem(ctx, Guest{Token: "g1"}, "A", "", "")
	require.NoError(t, err)
	_, err = svc.Merge(ctx, "g1", "u1")
	require.Error(t, err)
	assert.Equal(t, "Guest cart is empty", err.Error())

	_, err = svc.AddItem(ctx, Guest{Token: "g2"}, AddItem{ProductID: "A", Quantity: 1})
	require.NoError(t, err)
	db.Err = func(op, _ string) error {
		if op == "TransactWriteItems" {
			return errors.New("throttled")
		}
		return nil
	}
	_, err = svc.Merge(ctx, "g2", "u1")
	require.Error(t, err)
	db.Err = nil
	ok, err := db.Load(table, "guest#g2", &Cart{})
	require.NoError(t, err)
	assert.True(t, ok, "failed merge leaves the guest cart in place")
}

func TestDeleteForUser(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteForUser(ctx, "u1"))
	_, err := svc.AddItem(ctx, User{ID: "u1"}, AddItem{ProductID: "A", Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteForUser(ctx, "u1"))
	assert.Equal(t, 0, db.Count(table))
}

func TestQuantityCap(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	me := User{ID: "u1"}

	_, err := svc.AddItem(ctx, me, AddItem{ProductID: "A", Quantity: math.MaxInt})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	c, err := svc.AddItem(ctx, me, AddItem{ProductID: "A", Quantity: model.MaxQuantity - 1})
	require.NoError(t, err)
	assert.Equal(t, model.MaxQuantity-1, c.Products[0].Quantity)

	_, err = svc.AddItem(ctx, me, AddItem{ProductID: "A", Quantity: 2})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	c, err = svc.AddItem(ctx, me, AddItem{ProductID: "A", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, model.MaxQuantity, c.Products[0].Quantity)
	assert.Positive(t, c.TotalPrice)

	_, err = svc.UpdateQuantity(ctx, me, "A", "", "", math.MaxInt)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	stored, err := svc.Resolve(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, model.MaxQuantity, stored.Products[0].Quantity)
	assertTotal(t, stored)
}

func TestMerge_QuantityCap(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, User{ID: "u1"}, AddItem{ProductID: "A", Quantity: 600})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, Guest{Token: "g1"}, AddItem{ProductID: "A", Quantity: 600})
	require.NoError(t, err)

	_, err = svc.Merge(ctx, "g1", "u1")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	// nothing was written
	guest, err := svc.Resolve(ctx, Guest{Token: "g1"})
	require.NoError(t, err)
	require.NotNil(t, guest)
	user, err := svc.Resolve(ctx, User{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 600, user.Products[0].Quantity)
}
