// Package events defines the domain event envelope and its publishers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeUserRegistered = "user.registered"
	TypeOrderFinalized = "order.finalized"
	TypeRefundApproved = "refund.approved"
	TypeRefundRejected = "refund.rejected"
)

// Event is the envelope written to every transport.
type Event struct {
	EventID   string         `json:"eventId"`
	Type      string         `json:"type"`
	EntityID  string         `json:"entityId"`
	UserID    string         `json:"userId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// New returns an event with a fresh id and timestamp.
func New(typ, entityID, userID string, payload map[string]any) Event {
	return Event{
		EventID:   uuid.NewString(),
		Type:      typ,
		EntityID:  entityID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}
}

// Publisher delivers events to a transport.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to each publisher in order and stops at the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
