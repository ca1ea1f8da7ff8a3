// Package refunds handles return and refund requests against orders.
package refunds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/events"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/logging"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/metrics"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/orders"
)

// OrderSource is the part of the orders store refunds need.
type OrderSource interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	CancelItem(orderID string) (types.TransactWriteItem, error)
}

// Service implements the request lifecycle.
type Service struct {
	store     *Store
	orders    OrderSource
	publisher events.Publisher
	metrics   metrics.Counter
	nowFunc   func() time.Time
}

// NewService creates a refunds Service. Nil publisher and metrics are
// replaced with no-ops.
func NewService(store *Store, orders OrderSource, publisher events.Publisher, counter metrics.Counter) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if counter == nil {
		counter = metrics.NopCounter{}
	}
	return &Service{store: store, orders: orders, publisher: publisher, metrics: counter, nowFunc: time.Now}
}

// Create opens a Pending request for an order the user owns.
func (s *Service) Create(ctx context.Context, userID, orderID, reason string) (*Request, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("Order not found")
	}
	if o.UserID != userID {
		return nil, apperr.Forbidden("Not authorized to request a refund for this order")
	}
	now := s.nowFunc().UTC()
	r := Request{
		RequestID: uuid.NewString(),
		UserID:    userID,
		OrderID:   orderID,
		Reason:    reason,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return &r, nil
}

// ListMine returns the user's requests, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]Request, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListAll returns every request, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Request, error) {
	return s.store.ListAll(ctx)
}

// UpdateReason edits the reason of the owner's Pending request.
func (s *Service) UpdateReason(ctx context.Context, id, userID, reason string) (*Request, error) {
	r, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc().UTC()
	if err := s.store.UpdatePending(ctx, id, map[string]any{"reason": reason, "updated_at": now}); err != nil {
		if errors.Is(err, dynamo.ErrConditionFailed) {
			return nil, notPending()
		}
		return nil, fmt.Errorf("update request: %w", err)
	}
	r.Reason, r.UpdatedAt = reason, now
	return r, nil
}

// Delete withdraws the owner's Pending request.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.DeletePending(ctx, id); err != nil {
		if errors.Is(err, dynamo.ErrConditionFailed) {
			return s.conflict(ctx, id)
		}
		return fmt.Errorf("delete request: %w", err)
	}
	return nil
}

// Approve decides a Pending request and cancels its order in one
// transaction. When the order no longer exists only the request is approved.
func (s *Service) Approve(ctx context.Context, id string) (*Request, error) {
	r, err := s.pending(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc().UTC()
	decide, err := s.store.DecideItem(id, StatusApproved, now)
	if err != nil {
		return nil, err
	}
	items := []types.TransactWriteItem{decide}

	o, err := s.orders.Get(ctx, r.OrderID)
	if err != nil {
		return nil, err
	}
	if o != nil {
		cancel, err := s.orders.CancelItem(r.OrderID)
		if err != nil {
			return nil, err
		}
		items = append(items, cancel)
	} else {
		logging.Log(logging.Fields{Entity: "return_request", EntityID: id, Step: "cancel_order", Status: "skipped", Message: "order " + r.OrderID + " no longer exists"})
	}

	if err := s.store.Transact(ctx, items...); err != nil {
		if errors.Is(err, dynamo.ErrConditionFailed) {
			return nil, s.conflict(ctx, id)
		}
		return nil, fmt.Errorf("approve request: %w", err)
	}
	r.Status, r.UpdatedAt = StatusApproved, now
	s.announce(ctx, events.TypeRefundApproved, r)
	return r, nil
}

// Reject decides a Pending request without touching the order.
func (s *Service) Reject(ctx context.Context, id string) (*Request, error) {
	r, err := s.pending(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc().UTC()
	if err := s.store.UpdatePending(ctx, id, map[string]any{"status": StatusRejected, "updated_at": now}); err != nil {
		if errors.Is(err, dynamo.ErrConditionFailed) {
			return nil, s.conflict(ctx, id)
		}
		return nil, fmt.Errorf("reject request: %w", err)
	}
	r.Status, r.UpdatedAt = StatusRejected, now
	s.announce(ctx, events.TypeRefundRejected, r)
	return r, nil
}

func (s *Service) load(ctx context.Context, id string) (*Request, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound("Request not found")
	}
	return r, nil
}

func (s *Service) pending(ctx context.Context, id string) (*Request, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusPending {
		return nil, notPending()
	}
	return r, nil
}

func (s *Service) owned(ctx context.Context, id, userID string) (*Request, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusPending {
		return nil, notPending()
	}
	if r.UserID != userID {
		return nil, apperr.Forbidden("Not authorized to modify this request")
	}
	return r, nil
}

// conflict explains a failed decision: either the request is gone or it
// was decided concurrently.
func (s *Service) conflict(ctx context.Context, id string) error {
	r, err := s.store.Get(ctx, id)
	if err == nil && r == nil {
		return apperr.NotFound("Request not found")
	}
	return notPending()
}

func (s *Service) announce(ctx context.Context, typ string, r *Request) {
	ev := events.New(typ, r.RequestID, r.UserID, map[string]any{
		"orderId": r.OrderID,
		"status":  r.Status,
		"reason":  r.Reason,
	})
	fields := logging.Fields{UserID: r.UserID, Entity: "return_request", EntityID: r.RequestID}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logging.Error("publish_event", err, fields)
	}
	if err := s.metrics.Count(ctx, metrics.RefundsDecided, map[string]string{"Decision": r.Status}); err != nil {
		logging.Error("metric", err, fields)
	}
}

func notPending() error {
	return apperr.BadRequest("Request has already been processed")
}
