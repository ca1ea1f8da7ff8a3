package users

import "time"

// Roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// EmailIndex is the GSI on the email attribute.
const EmailIndex = "email-index"

// User represents the item stored in the users DynamoDB table.
type User struct {
	UserID       string    `dynamodbav:"user_id" json:"id"` // PK
	Name         string    `dynamodbav:"name" json:"name"`
	Email        string    `dynamodbav:"email" json:"email"` // lower-cased
	PasswordHash string    `dynamodbav:"password_hash" json:"-"`
	Role         string    `dynamodbav:"role" json:"role"`
	CreatedAt    time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Summary is the public subset of a user embedded in other resources.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.UserID, Name: u.Name, Email: u.Email}
}
