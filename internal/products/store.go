package products

import (
	"context"
	"time"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
)

// Store encapsulates operations on the products table.
type Store struct {
	table   *dynamo.Table
	nowFunc func() time.Time
}

// NewStore creates a new products Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		table:   dynamo.NewTable(client, tableName, "product_id"),
		nowFunc: time.Now,
	}
}

// Get fetches a product by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id string) (*Product, error) {
	var p Product
	found, err := s.table.Get(ctx, id, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// Put writes the whole product document.
func (s *Store) Put(ctx context.Context, p Product) error {
	return s.table.Put(ctx, p)
}

// Delete removes a product. It reports false when it did not exist.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	return s.table.Delete(ctx, id)
}

// List returns every product.
func (s *Store) List(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := s.table.ScanAll(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRating stores the aggregated review figures.
func (s *Store) UpdateRating(ctx context.Context, id string, rating float64, numReviews int) error {
	return s.table.Update(ctx, id, map[string]any{
		"rating":      rating,
		"num_reviews": numReviews,
		"updated_at":  s.nowFunc().UTC(),
	}, nil)
}
