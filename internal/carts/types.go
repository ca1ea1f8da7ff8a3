// Package carts manages shopping carts for registered users and guests.
package carts

import (
	"time"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/model"
)

// Identity is the owner of a cart: either a User or a Guest.
type Identity interface {
	ownerKey() string
}

// User identifies a registered user's cart.
type User struct{ ID string }

// Guest identifies an anonymous cart by its token.
type Guest struct{ Token string }

func (u User) ownerKey() string  { return "user#" + u.ID }
func (g Guest) ownerKey() string { return "guest#" + g.Token }

// Cart represents the item stored in the carts DynamoDB table.
type Cart struct {
	OwnerKey   string           `dynamodbav:"owner_key" json:"-"` // PK
	UserID     string           `dynamodbav:"user_id,omitempty" json:"user,omitempty"`
	GuestID    string           `dynamodbav:"guest_id,omitempty" json:"guestId,omitempty"`
	Products   []model.LineItem `dynamodbav:"products" json:"products"`
	TotalPrice float64          `dynamodbav:"total_price" json:"totalPrice"`
	CreatedAt  time.Time        `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `dynamodbav:"updated_at" json:"updatedAt"`
}

func newCart(id Identity, now time.Time) *Cart {
	c := &Cart{OwnerKey: id.ownerKey(), Products: []model.LineItem{}, CreatedAt: now, UpdatedAt: now}
	c.setOwner(id)
	return c
}

func (c *Cart) setOwner(id Identity) {
	c.OwnerKey = id.ownerKey()
	switch v := id.(type) {
	case User:
		c.UserID, c.GuestID = v.ID, ""
	case Guest:
		c.UserID, c.GuestID = "", v.Token
	}
}

func (c *Cart) recompute() {
	if c.Products == nil {
		c.Products = []model.LineItem{}
	}
	c.TotalPrice = model.Total(c.Products)
}

// AddItem describes a line to add to a cart.
type AddItem struct {
	ProductID   string
	Quantity    int
	Size        string
	Color       string
	Description string
	CustomImage string
}
