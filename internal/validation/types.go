package validation

import "github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/model"

// RegisterRequest is the payload for POST /api/users/register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the payload for POST /api/users/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest is the admin payload for POST /api/admin/users
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=customer admin"`
}

// UpdateUserRequest is the admin payload for PUT /api/admin/users/:id
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=customer admin"`
}

// ProductImage is a product picture reference.
type ProductImage struct {
	URL     string `json:"url" validate:"required"`
	AltText string `json:"altText"`
}

// ProductRequest is the admin payload for creating or replacing a product.
type ProductRequest struct {
	Name          string         `json:"name" validate:"required"`
	Description   string         `json:"description" validate:"required"`
	Price         float64        `json:"price" validate:"required,gt=0"`
	DiscountPrice float64        `json:"discountPrice" validate:"omitempty,gt=0"`
	CountInStock  int            `json:"countInStock" validate:"min=0"`
	SKU           string         `json:"sku" validate:"required"`
	Category      string         `json:"category" validate:"required"`
	Brand         string         `json:"brand"`
	Sizes         []string       `json:"sizes" validate:"required,min=1"`
	Colors        []string       `json:"colors" validate:"required,min=1"`
	Collections   string         `json:"collections" validate:"required"`
	Material      string         `json:"material"`
	Gender        string         `json:"gender" validate:"omitempty,oneof=Men Women Unisex"`
	Images        []ProductImage `json:"images" validate:"dive"`
	IsFeatured    bool           `json:"isFeatured"`
	IsPublished   *bool          `json:"isPublished"`
	Tags          []string       `json:"tags"`
}

// AddCartItemRequest is the payload for POST /api/cart
type AddCartItemRequest struct {
	ProductID   string `json:"productId" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1,max=1000"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	GuestID     string `json:"guestId"`
	Description string `json:"description"`
	CustomImage string `json:"customImage"`
}

// UpdateCartItemRequest is the payload for PUT /api/cart. A quantity of
// zero or less removes the line.
type UpdateCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"max=1000"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	GuestID   string `json:"guestId"`
}

// RemoveCartItemRequest is the payload for DELETE /api/cart
type RemoveCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	GuestID   string `json:"guestId"`
}

// MergeCartRequest is the payload for POST /api/cart/merge
type MergeCartRequest struct {
	GuestID string `json:"guestId" validate:"required"`
}

// CheckoutItem is a single checkout line as posted by the client.
type CheckoutItem struct {
	ProductID   string  `json:"productId" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Image       string  `json:"image"`
	Price       float64 `json:"price" validate:"gte=0"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Quantity    int     `json:"quantity" validate:"required,min=1,max=1000"`
	Description string  `json:"description"`
	CustomImage string  `json:"customImage"`
}

// CreateCheckoutRequest is the payload for POST /api/checkout.
// An empty item list passes validation; the service rejects it.
type CreateCheckoutRequest struct {
	CheckoutItems   []CheckoutItem        `json:"checkoutItems" validate:"dive"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod" validate:"required"`
	TotalPrice      float64               `json:"totalPrice" validate:"gte=0"`
}

// LineItems converts the posted items to the stored snapshot form.
func (r CreateCheckoutRequest) LineItems() []model.LineItem {
	items := make([]model.LineItem, 0, len(r.CheckoutItems))
	for _, it := range r.CheckoutItems {
		items = append(items, model.LineItem{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Image:       it.Image,
			Price:       it.Price,
			Size:        it.Size,
			Color:       it.Color,
			Quantity:    it.Quantity,
			Description: it.Description,
			CustomImage: it.CustomImage,
		})
	}
	return items
}

// PayCheckoutRequest is the payload for PUT /api/checkout/:id/pay
type PayCheckoutRequest struct {
	PaymentStatus  string         `json:"paymentStatus" validate:"required"`
	PaymentDetails map[string]any `json:"paymentDetails,omitempty"`
}

// UpdateOrderStatusRequest is the payload for PUT /api/admin/orders/:id
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Processing Shipped Delivered Cancelled"`
}

// CreateRefundRequest is the payload for POST /api/return-refund/create
type CreateRefundRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
}

// UpdateRefundRequest is the payload for PUT /api/return-refund/update/:id
type UpdateRefundRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CreateReviewRequest is the payload for POST /api/products/:id/reviews
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}
