package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamotest"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/products"
)

func newService(t *testing.T) (*Service, *products.Catalog) {
	t.Helper()
	db := dynamotest.New().
		AddTable("reviews", "review_id", map[string]string{ProductIndex: "product_id"}).
		AddTable("products", "product_id", nil)
	require.NoError(t, db.Seed("products", products.Product{ProductID: "p1", Name: "Tee", Price: 10, IsPublished: true}))
	catalog := products.NewCatalog(products.NewStore(db, "products"))
	return NewService(db, "reviews", catalog), catalog
}

func TestCreate_UpdatesRating(t *testing.T) {
	svc, catalog := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "p1", "u1", "Ana", 5, "great")
	require.NoError(t, err)
	r2, err := svc.Create(ctx, "p1", "u2", "Bo", 4, "good")
	require.NoError(t, err)

	p, err := catalog.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, 2, p.NumReviews)

	_, err = svc.Create(ctx, "p1", "u1", "Ana", 1, "again")
	require.Error(t, err)
	assert.Equal(t, "Product already reviewed", err.Error())

	_, err = svc.Create(ctx, "nope", "u1", "Ana", 3, "x")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.Delete(ctx, r2.ReviewID))
	p, err = catalog.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Rating)
	assert.Equal(t, 1, p.NumReviews)

	list, err := svc.ListForProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.True(t, apperr.Is(svc.Delete(ctx, r2.ReviewID), apperr.KindNotFound))
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 3.7, Average([]Review{{Rating: 5}, {Rating: 4}, {Rating: 2}}))
}
