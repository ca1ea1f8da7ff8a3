package carts

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/model"
)

// Store encapsulates operations on the carts table.
type Store struct {
	table *dynamo.Table
}

// NewStore creates a new carts Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{table: dynamo.NewTable(client, tableName, "owner_key")}
}

// Get fetches the cart of id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id Identity) (*Cart, error) {
	var c Cart
	found, err := s.table.Get(ctx, id.ownerKey(), &c)
	if err != nil || !found {
		return nil, err
	}
	if c.Products == nil {
		c.Products = []model.LineItem{}
	}
	return &c, nil
}

// Put overwrites the whole cart document.
func (s *Store) Put(ctx context.Context, c *Cart) error {
	return s.table.Put(ctx, c)
}

// Delete removes the cart of id; a missing cart is not an error.
func (s *Store) Delete(ctx context.Context, id Identity) error {
	_, err := s.table.Delete(ctx, id.ownerKey())
	return err
}

// ReplaceItems returns the transaction items that write c and remove the
// cart previously stored under the old identity.
func (s *Store) ReplaceItems(c *Cart, old Identity) ([]types.TransactWriteItem, error) {
	put, err := s.table.PutItem(c, false)
	if err != nil {
		return nil, err
	}
	return []types.TransactWriteItem{put, s.table.DeleteItem(old.ownerKey())}, nil
}

// Transact runs items against the carts table client.
func (s *Store) Transact(ctx context.Context, items []types.TransactWriteItem) error {
	return dynamo.Transact(ctx, s.table.Client(), items...)
}
