package users

import (
	"context"
	"strings"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
)

// Store encapsulates operations on the users table.
type Store struct {
	table *dynamo.Table
}

// NewStore creates a new users Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{table: dynamo.NewTable(client, tableName, "user_id")}
}

// Get fetches a user by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id string) (*User, error) {
	var u User
	found, err := s.table.Get(ctx, id, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks a user up through the email index.
func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	var list []User
	if err := s.table.QueryIndex(ctx, EmailIndex, "email", strings.ToLower(email), &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// Create writes a new user. It fails with dynamo.ErrConditionFailed if the id is taken.
func (s *Store) Create(ctx context.Context, u User) error {
	return s.table.Create(ctx, u)
}

// Put overwrites a user.
func (s *Store) Put(ctx context.Context, u User) error {
	return s.table.Put(ctx, u)
}

// Delete removes a user. It reports false when it did not exist.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	return s.table.Delete(ctx, id)
}

// List returns all users.
func (s *Store) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := s.table.ScanAll(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
