package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
)

// ErrNotFound is returned when updating an order that does not exist.
var ErrNotFound = errors.New("order not found")

// Store encapsulates operations on the orders table.
type Store struct {
	table   *dynamo.Table
	nowFunc func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		table:   dynamo.NewTable(client, tableName, "order_id"),
		nowFunc: time.Now,
	}
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	found, err := s.table.Get(ctx, orderID, &o)
	if err != nil || !found {
		return nil, err
	}
	return &o, nil
}

// CreateItem returns the transactional put of a new order, guarded so that an
// order id is written once. CreatedAt/UpdatedAt are filled when empty.
func (s *Store) CreateItem(o *Order) (types.TransactWriteItem, error) {
	now := s.nowFunc().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	item, err := s.table.PutItem(o, true)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("marshal order item: %w", err)
	}
	return item, nil
}

// CancelItem returns the transactional update setting the order Cancelled.
// The order must still exist.
func (s *Store) CancelItem(orderID string) (types.TransactWriteItem, error) {
	return s.table.UpdateItem(orderID, map[string]any{
		"status":     StatusCancelled,
		"updated_at": s.nowFunc().UTC(),
	}, nil)
}

// ListAll returns every order, newest first.
func (s *Store) ListAll(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := s.table.ScanAll(ctx, &out); err != nil {
		return nil, err
	}
	newestFirst(out)
	return out, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	var out []Order
	if err := s.table.QueryIndex(ctx, UserIndex, "user_id", userID, &out); err != nil {
		return nil, err
	}
	newestFirst(out)
	return out, nil
}

// UpdateStatus sets the order status unconditionally. Delivered also sets
// the delivery flags. Returns ErrNotFound if the order does not exist.
func (s *Store) UpdateStatus(ctx context.Context, orderID, newStatus string) error {
	now := s.nowFunc().UTC()
	set := map[string]any{
		"status":     newStatus,
		"updated_at": now,
	}
	if newStatus == StatusDelivered {
		set["is_delivered"] = true
		set["delivered_at"] = now
	}
	err := s.table.Update(ctx, orderID, set, nil)
	if errors.Is(err, dynamo.ErrConditionFailed) {
		return ErrNotFound
	}
	return err
}

// Delete removes an order. It reports false when it did not exist.
func (s *Store) Delete(ctx context.Context, orderID string) (bool, error) {
	return s.table.Delete(ctx, orderID)
}

func newestFirst(list []Order) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
