package main

import (
	"context"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/users"
)

// UserDirectory resolves the recipient of a notification.
type UserDirectory interface {
	Lookup(ctx context.Context, id string) (*users.User, error)
}

// Notifier is satisfied by notify.Mailer.
type Notifier interface {
	SendWelcome(to, name string) error
	SendOrderConfirmation(to, name, orderID string, total float64, items int) error
	SendRefundDecision(to, name, orderID, status string) error
}
