// Package reviews stores product reviews and keeps product ratings current.
package reviews

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/products"
)

// ProductIndex is the GSI on product_id.
const ProductIndex = "product_id-index"

// Review represents the item stored in the reviews DynamoDB table.
type Review struct {
	ReviewID  string    `dynamodbav:"review_id" json:"id"` // PK
	ProductID string    `dynamodbav:"product_id" json:"product"`
	UserID    string    `dynamodbav:"user_id" json:"user"`
	UserName  string    `dynamodbav:"user_name" json:"name"`
	Rating    int       `dynamodbav:"rating" json:"rating"`
	Comment   string    `dynamodbav:"comment" json:"comment"`
	CreatedAt time.Time `dynamodbav:"created_at" json:"createdAt"`
}

// Catalog is the product side reviews depend on.
type Catalog interface {
	Lookup(ctx context.Context, id string) (*products.Product, error)
	SetRating(ctx context.Context, id string, rating float64, numReviews int) error
}

// Service manages reviews.
type Service struct {
	table   *dynamo.Table
	catalog Catalog
	nowFunc func() time.Time
}

// NewService creates a reviews Service on tableName.
func NewService(client aws.DynamoDBAPI, tableName string, catalog Catalog) *Service {
	return &Service{
		table:   dynamo.NewTable(client, tableName, "review_id"),
		catalog: catalog,
		nowFunc: time.Now,
	}
}

// ListForProduct returns a product's reviews, newest first.
func (s *Service) ListForProduct(ctx context.Context, productID string) ([]Review, error) {
	out := []Review{}
	if err := s.table.QueryIndex(ctx, ProductIndex, "product_id", productID, &out); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Create adds the user's review of a product. A user reviews a product once.
func (s *Service) Create(ctx context.Context, productID, userID, userName string, rating int, comment string) (*Review, error) {
	p, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Product not found")
	}
	existing, err := s.ListForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.UserID == userID {
			return nil, apperr.BadRequest("Product already reviewed")
		}
	}

	r := Review{
		ReviewID:  uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.nowFunc().UTC(),
	}
	if err := s.table.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if err := s.refresh(ctx, productID, append(existing, r)); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes a review and recomputes its product's rating.
func (s *Service) Delete(ctx context.Context, reviewID string) error {
	var r Review
	found, err := s.table.Get(ctx, reviewID, &r)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("Review not found")
	}
	if _, err := s.table.Delete(ctx, reviewID); err != nil {
		return err
	}
	rest, err := s.ListForProduct(ctx, r.ProductID)
	if err != nil {
		return err
	}
	p, err := s.catalog.Lookup(ctx, r.ProductID)
	if err != nil || p == nil {
		// product already removed
		return err
	}
	return s.refresh(ctx, r.ProductID, rest)
}

func (s *Service) refresh(ctx context.Context, productID string, list []Review) error {
	rating, n := Average(list), len(list)
	if err := s.catalog.SetRating(ctx, productID, rating, n); err != nil {
		return fmt.Errorf("update product rating: %w", err)
	}
	return nil
}

// Average returns the mean rating rounded to one decimal, 0 for no reviews.
func Average(list []Review) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, r := range list {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	return sum.Div(decimal.NewFromInt(int64(len(list)))).Round(1).InexactFloat64()
}
