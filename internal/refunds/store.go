package refunds

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
)

// Store encapsulates operations on the return_requests table.
type Store struct {
	table *dynamo.Table
}

// NewStore creates a new refunds Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{table: dynamo.NewTable(client, tableName, "request_id")}
}

// Get fetches a request. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id string) (*Request, error) {
	var r Request
	found, err := s.table.Get(ctx, id, &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

// Create writes a new request.
func (s *Store) Create(ctx context.Context, r Request) error {
	return s.table.Create(ctx, r)
}

// ListByUser returns the user's requests, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Request, error) {
	out := []Request{}
	if err := s.table.QueryIndex(ctx, UserIndex, "user_id", userID, &out); err != nil {
		return nil, err
	}
	newestFirst(out)
	return out, nil
}

// ListAll returns every request, newest first.
func (s *Store) ListAll(ctx context.Context) ([]Request, error) {
	out := []Request{}
	if err := s.table.ScanAll(ctx, &out); err != nil {
		return nil, err
	}
	newestFirst(out)
	return out, nil
}

// UpdatePending sets attributes on a request that is still Pending.
// It returns dynamo.ErrConditionFailed otherwise.
func (s *Store) UpdatePending(ctx context.Context, id string, set map[string]any) error {
	return s.table.Update(ctx, id, set, map[string]any{"status": StatusPending})
}

// DecideItem returns the transactional update moving a Pending request to status.
func (s *Store) DecideItem(id, status string, now time.Time) (types.TransactWriteItem, error) {
	return s.table.UpdateItem(id,
		map[string]any{"status": status, "updated_at": now},
		map[string]any{"status": StatusPending},
	)
}

// DeletePending removes a request that is still Pending.
// It returns dynamo.ErrConditionFailed otherwise.
func (s *Store) DeletePending(ctx context.Context, id string) error {
	return s.table.DeleteIf(ctx, id, map[string]any{"status": StatusPending})
}

// Transact runs items on the requests client.
func (s *Store) Transact(ctx context.Context, items ...types.TransactWriteItem) error {
	return dynamo.Transact(ctx, s.table.Client(), items...)
}

func newestFirst(list []Request) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
