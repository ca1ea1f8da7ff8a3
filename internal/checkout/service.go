// Package checkout turns carts into paid orders.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
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

// OrderWriter builds the transactional put of a new order.
type OrderWriter interface {
	CreateItem(o *orders.Order) (types.TransactWriteItem, error)
}

// CartClearer removes a user's cart once their order exists.
type CartClearer interface {
	DeleteForUser(ctx context.Context, userID string) error
}

// FileStore keeps uploaded files and returns their URL.
type FileStore interface {
	Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader) (string, error)
}

// Deps groups the collaborators of the Service.
type Deps struct {
	Orders    OrderWriter
	Carts     CartClearer
	Files     FileStore
	Publisher events.Publisher
	Metrics   metrics.Counter
}

// Service implements the checkout lifecycle.
type Service struct {
	store   *Store
	deps    Deps
	nowFunc func() time.Time
}

// NewService creates a checkout Service. Nil publisher and metrics are
// replaced with no-ops.
func NewService(store *Store, deps Deps) *Service {
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NopCounter{}
	}
	return &Service{store: store, deps: deps, nowFunc: time.Now}
}

// Create persists a pending checkout. The total is stored as submitted.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Checkout, error) {
	if len(in.Items) == 0 {
		return nil, apperr.BadRequest("no items in checkout")
	}
	now := s.nowFunc().UTC()
	c := Checkout{
		CheckoutID:      uuid.NewString(),
		UserID:          userID,
		CheckoutItems:   in.Items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		TotalPrice:      in.TotalPrice,
		PaymentStatus:   PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}
	s.count(ctx, metrics.CheckoutsCreated, c.CheckoutID)
	return &c, nil
}

// Get returns a checkout owned by userID.
func (s *Service) Get(ctx context.Context, id, userID string) (*Checkout, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, apperr.Forbidden("Not authorized to access this checkout")
	}
	return c, nil
}

// MarkPaid records the payment outcome reported by the client. Only "paid"
// is accepted and it is not verified with the payment provider.
func (s *Service) MarkPaid(ctx context.Context, id, paymentStatus string, details map[string]any) (*Checkout, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if paymentStatus != PaymentPaid {
		return nil, apperr.BadRequest("Invalid Payment Status")
	}
	now := s.nowFunc().UTC()
	set := map[string]any{
		"is_paid":        true,
		"paid_at":        now,
		"payment_status": paymentStatus,
		"updated_at":     now,
	}
	if details != nil {
		set["payment_details"] = details
	}
	if err := s.store.Update(ctx, id, set); err != nil {
		if errors.Is(err, dynamo.ErrConditionFailed) {
			return nil, apperr.NotFound("Checkout not found")
		}
		return nil, fmt.Errorf("mark paid: %w", err)
	}
	c.IsPaid, c.PaidAt, c.PaymentStatus, c.UpdatedAt = true, &now, paymentStatus, now
	if details != nil {
		c.PaymentDetails = details
	}
	return c, nil
}

// Finalize converts a paid checkout into an order exactly once. The order
// put and the checkout flag are one transaction; clearing the cart, the
// event and the metric follow and do not fail the call.
func (s *Service) Finalize(ctx context.Context, id string) (*orders.Order, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := finalizable(c); err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	order := &orders.Order{
		OrderID:         uuid.NewString(),
		UserID:          c.UserID,
		CheckoutID:      c.CheckoutID,
		OrderItems:      c.CheckoutItems,
		ShippingAddress: c.ShippingAddress,
		PaymentMethod:   c.PaymentMethod,
		PaymentStatus:   PaymentPaid,
		PaymentDetails:  c.PaymentDetails,
		TotalPrice:      c.TotalPrice,
		IsPaid:          true,
		PaidAt:          c.PaidAt,
		Status:          orders.StatusProcessing,
		CreatedAt:       now,
	}
	orderItem, err := s.deps.Orders.CreateItem(order)
	if err != nil {
		return nil, err
	}
	flagItem, err := s.store.FinalizeItem(id, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.Transact(ctx, orderItem, flagItem); err != nil {
		if errors.Is(err, dynamo.ErrConditionFailed) {
			// lost a race; report the state that beat us
			if cur, lerr := s.load(ctx, id); lerr == nil {
				if ferr := finalizable(cur); ferr != nil {
					return nil, ferr
				}
			}
			return nil, apperr.BadRequest("Checkout already finalized")
		}
		return nil, fmt.Errorf("finalize checkout: %w", err)
	}

	log := logging.Fields{UserID: c.UserID, Entity: "order", EntityID: order.OrderID}
	if err := s.deps.Carts.DeleteForUser(ctx, c.UserID); err != nil {
		logging.Error("clear_cart", err, log)
	}
	ev := events.New(events.TypeOrderFinalized, order.OrderID, c.UserID, map[string]any{
		"checkoutId": c.CheckoutID,
		"totalPrice": order.TotalPrice,
		"items":      len(order.OrderItems),
	})
	if err := s.deps.Publisher.Publish(ctx, ev); err != nil {
		logging.Error("publish_event", err, log)
	}
	s.count(ctx, metrics.OrdersFinalized, order.OrderID)

	log.Step, log.Status = "finalize", "ok"
	logging.Log(log)
	return order, nil
}

// AttachPaymentProof stores a bank transfer receipt for the owner's checkout.
func (s *Service) AttachPaymentProof(ctx context.Context, id, userID, filename, contentType string, body io.Reader) (*Checkout, error) {
	c, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.deps.Files.Upload(ctx, "payment-proofs/"+id, filename, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload payment proof: %w", err)
	}
	now := s.nowFunc().UTC()
	if err := s.store.Update(ctx, id, map[string]any{"payment_proof_url": url, "updated_at": now}); err != nil {
		return nil, fmt.Errorf("save payment proof: %w", err)
	}
	c.PaymentProofURL, c.UpdatedAt = url, now
	return c, nil
}

func (s *Service) load(ctx context.Context, id string) (*Checkout, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Checkout not found")
	}
	return c, nil
}

func (s *Service) count(ctx context.Context, name, id string) {
	if err := s.deps.Metrics.Count(ctx, name, nil); err != nil {
		logging.Error("metric", err, logging.Fields{Message: name, EntityID: id})
	}
}

func finalizable(c *Checkout) error {
	if c.IsFinalized {
		return apperr.BadRequest("Checkout already finalized")
	}
	if !c.IsPaid {
		return apperr.BadRequest("Checkout is not paid")
	}
	return nil
}
