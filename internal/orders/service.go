// Package orders stores finalized orders and serves order history.
package orders

import (
	"context"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/users"
)

// UserLookup resolves order owners for admin listings.
type UserLookup interface {
	Lookup(ctx context.Context, id string) (*users.User, error)
}

// Service exposes order history and admin management.
type Service struct {
	store *Store
	users UserLookup
}

// NewService creates an orders Service.
func NewService(store *Store, users UserLookup) *Service {
	return &Service{store: store, users: users}
}

// Get returns the order if the requester owns it or is an admin.
func (s *Service) Get(ctx context.Context, orderID, requesterID string, admin bool) (*Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("Order not found")
	}
	if !admin && o.UserID != requesterID {
		return nil, apperr.Forbidden("Not authorized to view this order")
	}
	return o, nil
}

// ListMine returns the user's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]Order, error) {
	list, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Order{}
	}
	return list, nil
}

// ListAll returns all orders with their owners, newest first. Owners that
// no longer exist are left nil.
func (s *Service) ListAll(ctx context.Context) ([]WithUser, error) {
	list, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	cache := map[string]*users.Summary{}
	out := make([]WithUser, 0, len(list))
	for _, o := range list {
		sum, ok := cache[o.UserID]
		if !ok {
			u, err := s.users.Lookup(ctx, o.UserID)
			if err != nil {
				return nil, err
			}
			if u != nil {
				v := u.Summary()
				sum = &v
			}
			cache[o.UserID] = sum
		}
		out = append(out, WithUser{Order: o, User: sum})
	}
	return out, nil
}

// UpdateStatus sets any valid status regardless of the current one.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, apperr.BadRequest("Invalid order status")
	}
	if err := s.store.UpdateStatus(ctx, orderID, status); err != nil {
		if err == ErrNotFound {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, err
	}
	return s.store.Get(ctx, orderID)
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	ok, err := s.store.Delete(ctx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Order not found")
	}
	return nil
}
