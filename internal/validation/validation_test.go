package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/model"
)

func validProduct() ProductRequest {
	return ProductRequest{
		Name:        "Linen Shirt",
		Description: "Breathable summer shirt",
		Price:       49.99,
		SKU:         "LS-001",
		Category:    "Top Wear",
		Sizes:       []string{"S", "M"},
		Colors:      []string{"White"},
		Collections: "Summer",
		Gender:      "Men",
	}
}

func TestProductRequest_Valid(t *testing.T) {
	v := New()

	req := validProduct()
	req.DiscountPrice = 39.99
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestProductRequest_DiscountNotBelowPrice(t *testing.T) {
	v := New()

	req := validProduct()
	req.DiscountPrice = 49.99
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for discount >= price, got nil")
	}
}

func TestProductRequest_InvalidGender(t *testing.T) {
	v := New()

	req := validProduct()
	req.Gender = "Kids"
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for gender, got nil")
	}
}

func TestCreateCheckoutRequest_MissingAddressFields(t *testing.T) {
	v := New()

	req := CreateCheckoutRequest{
		CheckoutItems: []CheckoutItem{{ProductID: "p1", Name: "Tee", Price: 20, Quantity: 2}},
		ShippingAddress: model.ShippingAddress{
			Address: "1 Main St",
			City:    "Colombo",
		},
		PaymentMethod: "PayPal",
		TotalPrice:    40,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation errors for missing postal code and country, got nil")
	}
}

func TestCreateCheckoutRequest_EmptyItemsPassValidation(t *testing.T) {
	v := New()

	req := CreateCheckoutRequest{
		ShippingAddress: model.ShippingAddress{Address: "a", City: "b", PostalCode: "c", Country: "d"},
		PaymentMethod:   "PayPal",
	}
	if err := v.Struct(req); err != nil {
		t.Fatalf("empty items are rejected by the checkout service, not the validator: %v", err)
	}
	if got := req.LineItems(); len(got) != 0 {
		t.Fatalf("expected no line items, got %d", len(got))
	}
}

func TestUpdateOrderStatusRequest(t *testing.T) {
	v := New()

	if err := v.Struct(UpdateOrderStatusRequest{Status: "Shipped"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := v.Struct(UpdateOrderStatusRequest{Status: "Lost"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestBindAndValidate_WritesMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating": 9}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req CreateReviewRequest
	if err := BindAndValidate(c, &req, New()); err == nil {
		t.Fatal("expected error")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"message":"Validation failed"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestQuantityUpperBound(t *testing.T) {
	v := New()

	cases := []struct {
		name string
		req  any
		ok   bool
	}{
		{"add at cap", AddCartItemRequest{ProductID: "p1", Quantity: model.MaxQuantity}, true},
		{"add over cap", AddCartItemRequest{ProductID: "p1", Quantity: model.MaxQuantity + 1}, false},
		{"update over cap", UpdateCartItemRequest{ProductID: "p1", Quantity: model.MaxQuantity + 1}, false},
		{"update to zero removes", UpdateCartItemRequest{ProductID: "p1", Quantity: 0}, true},
		{"checkout item over cap", CheckoutItem{ProductID: "p1", Name: "Tee", Quantity: model.MaxQuantity + 1}, false},
	}
	for _, tc := range cases {
		err := v.Struct(tc.req)
		if tc.ok && err != nil {
			t.Errorf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}
