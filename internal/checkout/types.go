package checkout

import (
	"time"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/model"
)

// Payment statuses
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentUnpaid  = "unpaid"
)

// Checkout represents the item stored in the checkouts DynamoDB table.
// is_paid and is_finalized are always written because finalize conditions
// on them.
type Checkout struct {
	CheckoutID      string                `dynamodbav:"checkout_id" json:"id"` // PK
	UserID          string                `dynamodbav:"user_id" json:"user"`
	CheckoutItems   []model.LineItem      `dynamodbav:"checkout_items" json:"checkoutItems"`
	ShippingAddress model.ShippingAddress `dynamodbav:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string                `dynamodbav:"payment_method" json:"paymentMethod"`
	TotalPrice      float64               `dynamodbav:"total_price" json:"totalPrice"`
	PaymentStatus   string                `dynamodbav:"payment_status" json:"paymentStatus"` // pending | paid | unpaid
	PaymentDetails  map[string]any        `dynamodbav:"payment_details,omitempty" json:"paymentDetails,omitempty"`
	IsPaid          bool                  `dynamodbav:"is_paid" json:"isPaid"`
	PaidAt          *time.Time            `dynamodbav:"paid_at,omitempty" json:"paidAt,omitempty"`
	IsFinalized     bool                  `dynamodbav:"is_finalized" json:"isFinalized"`
	FinalizedAt     *time.Time            `dynamodbav:"finalized_at,omitempty" json:"finalizedAt,omitempty"`
	PaymentProofURL string                `dynamodbav:"payment_proof_url,omitempty" json:"paymentProofUrl,omitempty"`
	CreatedAt       time.Time             `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt       time.Time             `dynamodbav:"updated_at" json:"updatedAt"`
}

// CreateInput is what a customer submits to start a checkout.
type CreateInput struct {
	Items           []model.LineItem
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
	TotalPrice      float64
}
