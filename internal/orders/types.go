package orders

import (
	"time"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/model"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/users"
)

// Order statuses
const (
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// UserIndex is the GSI on user_id.
const UserIndex = "user_id-index"

// ValidStatus reports whether s is one of the order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order represents the item stored in the Orders DynamoDB table.
type Order struct {
	OrderID         string                `dynamodbav:"order_id" json:"id"` // PK
	UserID          string                `dynamodbav:"user_id" json:"user"`
	CheckoutID      string                `dynamodbav:"checkout_id" json:"checkoutId"`
	OrderItems      []model.LineItem      `dynamodbav:"order_items" json:"orderItems"`
	ShippingAddress model.ShippingAddress `dynamodbav:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string                `dynamodbav:"payment_method" json:"paymentMethod"`
	PaymentStatus   string                `dynamodbav:"payment_status" json:"paymentStatus"`
	PaymentDetails  map[string]any        `dynamodbav:"payment_details,omitempty" json:"paymentDetails,omitempty"`
	TotalPrice      float64               `dynamodbav:"total_price" json:"totalPrice"`
	IsPaid          bool                  `dynamodbav:"is_paid" json:"isPaid"`
	PaidAt          *time.Time            `dynamodbav:"paid_at,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool                  `dynamodbav:"is_delivered" json:"isDelivered"`
	DeliveredAt     *time.Time            `dynamodbav:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
	Status          string                `dynamodbav:"status" json:"status"` // Processing | Shipped | Delivered | Cancelled
	CreatedAt       time.Time             `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt       time.Time             `dynamodbav:"updated_at" json:"updatedAt"`
}

// WithUser is an order with its owner populated, as listed to admins.
type WithUser struct {
	Order
	User *users.Summary `json:"user"`
}
