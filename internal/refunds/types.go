package refunds

import "time"

// Request statuses. Approved and Rejected are terminal.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// UserIndex is the GSI on user_id.
const UserIndex = "user_id-index"

// Request represents the item stored in the return_requests DynamoDB table.
type Request struct {
	RequestID string    `dynamodbav:"request_id" json:"id"` // PK
	UserID    string    `dynamodbav:"user_id" json:"user"`
	OrderID   string    `dynamodbav:"order_id" json:"order"`
	Reason    string    `dynamodbav:"reason" json:"reason"`
	Status    string    `dynamodbav:"status" json:"status"` // Pending | Approved | Rejected
	CreatedAt time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}
