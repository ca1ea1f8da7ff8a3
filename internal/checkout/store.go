package checkout

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
)

// Store encapsulates operations on the checkouts table.
type Store struct {
	table *dynamo.Table
}

// NewStore creates a new checkouts Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{table: dynamo.NewTable(client, tableName, "checkout_id")}
}

// Get fetches a checkout. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id string) (*Checkout, error) {
	var c Checkout
	found, err := s.table.Get(ctx, id, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

// Create writes a new checkout.
func (s *Store) Create(ctx context.Context, c Checkout) error {
	return s.table.Create(ctx, c)
}

// Update sets attributes on an existing checkout.
func (s *Store) Update(ctx context.Context, id string, set map[string]any) error {
	return s.table.Update(ctx, id, set, nil)
}

// FinalizeItem returns the transactional update marking a paid, not yet
// finalized checkout as finalized.
func (s *Store) FinalizeItem(id string, now time.Time) (types.TransactWriteItem, error) {
	return s.table.UpdateItem(id,
		map[string]any{"is_finalized": true, "finalized_at": now, "updated_at": now},
		map[string]any{"is_finalized": false, "is_paid": true},
	)
}

// Transact runs items on the checkouts client.
func (s *Store) Transact(ctx context.Context, items ...types.TransactWriteItem) error {
	return dynamo.Transact(ctx, s.table.Client(), items...)
}
