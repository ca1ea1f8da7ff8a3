package products

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

const (
	newArrivalsLimit = 8
	similarLimit     = 4
)

// Catalog serves product queries and admin product management.
type Catalog struct {
	store   *Store
	nowFunc func() time.Time
}

// NewCatalog wraps a product Store.
func NewCatalog(store *Store) *Catalog {
	return &Catalog{store: store, nowFunc: time.Now}
}

// Lookup returns the product with id, or (nil, nil). Carts use it to take
// item snapshots.
func (c *Catalog) Lookup(ctx context.Context, id string) (*Product, error) {
	return c.store.Get(ctx, id)
}

// Get returns a product or NotFound.
func (c *Catalog) Get(ctx context.Context, id string) (*Product, error) {
	p, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Product not found")
	}
	return p, nil
}

// List returns the products matching f, sorted and limited as requested.
// Filtering happens in memory over a full scan.
func (c *Catalog) List(ctx context.Context, f Filter) ([]Product, error) {
	all, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if f.match(p) {
			out = append(out, p)
		}
	}
	sortProducts(out, f.SortBy)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// BestSeller returns the highest rated product.
func (c *Catalog) BestSeller(ctx context.Context) (*Product, error) {
	list, err := c.List(ctx, Filter{SortBy: SortPopularity, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperr.NotFound("No best seller found")
	}
	return &list[0], nil
}

// NewArrivals returns the most recently created products.
func (c *Catalog) NewArrivals(ctx context.Context) ([]Product, error) {
	list, err := c.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if len(list) > newArrivalsLimit {
		list = list[:newArrivalsLimit]
	}
	return list, nil
}

// Similar returns products sharing gender and category with id.
func (c *Catalog) Similar(ctx context.Context, id string) ([]Product, error) {
	p, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := c.List(ctx, Filter{Gender: p.Gender, Category: p.Category})
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, similarLimit)
	for _, q := range list {
		if q.ProductID == id {
			continue
		}
		out = append(out, q)
		if len(out) == similarLimit {
			break
		}
	}
	return out, nil
}

// ListAll returns every product including unpublished ones.
func (c *Catalog) ListAll(ctx context.Context) ([]Product, error) {
	return c.List(ctx, Filter{IncludeUnpublished: true})
}

// Create stores a new product owned by adminID.
func (c *Catalog) Create(ctx context.Context, adminID string, req validation.ProductRequest) (*Product, error) {
	now := c.nowFunc().UTC()
	p := Product{
		ProductID:   uuid.NewString(),
		CreatedBy:   adminID,
		CreatedAt:   now,
		IsPublished: true,
	}
	apply(&p, req)
	p.UpdatedAt = now
	if err := c.store.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &p, nil
}

// Update replaces the editable fields of a product. Rating figures are kept.
func (c *Catalog) Update(ctx context.Context, id string, req validation.ProductRequest) (*Product, error) {
	p, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(p, req)
	p.UpdatedAt = c.nowFunc().UTC()
	if err := c.store.Put(ctx, *p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete removes a product.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	ok, err := c.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Product not found")
	}
	return nil
}

// SetRating stores aggregated review figures for a product.
func (c *Catalog) SetRating(ctx context.Context, id string, rating float64, numReviews int) error {
	return c.store.UpdateRating(ctx, id, rating, numReviews)
}

func apply(p *Product, req validation.ProductRequest) {
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.DiscountPrice = req.DiscountPrice
	p.CountInStock = req.CountInStock
	p.SKU = req.SKU
	p.Category = req.Category
	p.Brand = req.Brand
	p.Sizes = req.Sizes
	p.Colors = req.Colors
	p.Collections = req.Collections
	p.Material = req.Material
	p.Gender = req.Gender
	p.IsFeatured = req.IsFeatured
	p.Tags = req.Tags
	p.Images = make([]Image, 0, len(req.Images))
	for _, img := range req.Images {
		p.Images = append(p.Images, Image{URL: img.URL, AltText: img.AltText})
	}
	if req.IsPublished != nil {
		p.IsPublished = *req.IsPublished
	}
}

func (f Filter) match(p Product) bool {
	if !f.IncludeUnpublished && !p.IsPublished {
		return false
	}
	if f.Collection != "" && !strings.EqualFold(f.Collection, "all") && !strings.EqualFold(p.Collections, f.Collection) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, "all") && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Gender != "" && !strings.EqualFold(p.Gender, f.Gender) {
		return false
	}
	if f.Color != "" && !containsFold(p.Colors, f.Color) {
		return false
	}
	if len(f.Sizes) > 0 && !anyIn(p.Sizes, f.Sizes) {
		return false
	}
	if len(f.Materials) > 0 && !containsAny(f.Materials, p.Material) {
		return false
	}
	if len(f.Brands) > 0 && !containsAny(f.Brands, p.Brand) {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

func sortProducts(list []Product, by string) {
	switch by {
	case SortPriceAsc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Price < list[j].Price })
	case SortPriceDesc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Price > list[j].Price })
	case SortPopularity:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rating > list[j].Rating })
	default:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	}
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func containsAny(list []string, v string) bool {
	return v != "" && containsFold(list, v)
}

func anyIn(have, want []string) bool {
	for _, w := range want {
		if containsFold(have, w) {
			return true
		}
	}
	return false
}
