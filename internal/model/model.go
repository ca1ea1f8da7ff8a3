// Package model holds value types shared by carts, checkouts and orders.
package model

import "github.com/shopspring/decimal"

// MaxQuantity caps the quantity of a single line.
const MaxQuantity = 1000

// LineItem is a product snapshot taken when it was added to a cart.
// Name, Image and Price are not re-synced with the catalog afterwards.
type LineItem struct {
	ProductID   string  `dynamodbav:"product_id" json:"productId"`
	Name        string  `dynamodbav:"name" json:"name"`
	Image       string  `dynamodbav:"image,omitempty" json:"image,omitempty"`
	Price       float64 `dynamodbav:"price" json:"price"`
	Size        string  `dynamodbav:"size,omitempty" json:"size,omitempty"`
	Color       string  `dynamodbav:"color,omitempty" json:"color,omitempty"`
	Quantity    int     `dynamodbav:"quantity" json:"quantity"`
	Description string  `dynamodbav:"description,omitempty" json:"description,omitempty"`
	CustomImage string  `dynamodbav:"custom_image,omitempty" json:"customImage,omitempty"`
}

// Matches reports whether the item is the same product variant.
func (li LineItem) Matches(productID, size, color string) bool {
	return li.ProductID == productID && li.Size == size && li.Color == color
}

// ShippingAddress is required on every checkout.
type ShippingAddress struct {
	Address    string `dynamodbav:"address" json:"address" validate:"required"`
	City       string `dynamodbav:"city" json:"city" validate:"required"`
	PostalCode string `dynamodbav:"postal_code" json:"postalCode" validate:"required"`
	Country    string `dynamodbav:"country" json:"country" validate:"required"`
}

// Total returns the sum of price × quantity rounded to cents.
func Total(items []LineItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.Round(2).InexactFloat64()
}

// FindItem returns the index of the matching variant or -1.
func FindItem(items []LineItem, productID, size, color string) int {
	for i, it := range items {
		if it.Matches(productID, size, color) {
			return i
		}
	}
	return -1
}
