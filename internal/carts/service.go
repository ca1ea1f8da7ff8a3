package carts

import (
	"context"
	"fmt"
	"time"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/model"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/products"
)

// ProductLookup finds a catalog product, returning (nil, nil) when absent.
type ProductLookup interface {
	Lookup(ctx context.Context, id string) (*products.Product, error)
}

// Service implements cart operations. Every mutation is a read, modify and
// whole-document write; concurrent writers to one cart race and the last
// write wins.
type Service struct {
	store    *Store
	products ProductLookup
	nowFunc  func() time.Time
}

// NewService creates a cart Service.
func NewService(store *Store, products ProductLookup) *Service {
	return &Service{store: store, products: products, nowFunc: time.Now}
}

// Resolve returns the cart of id, or (nil, nil) when it has none.
func (s *Service) Resolve(ctx context.Context, id Identity) (*Cart, error) {
	return s.store.Get(ctx, id)
}

// AddItem adds quantity of a product variant, creating the cart if needed.
func (s *Service) AddItem(ctx context.Context, id Identity, in AddItem) (*Cart, error) {
	if in.Quantity < 1 {
		return nil, apperr.BadRequest("Quantity must be at least 1")
	}
	if in.Quantity > model.MaxQuantity {
		return nil, tooMany()
	}
	p, err := s.products.Lookup(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Product not found")
	}

	now := s.nowFunc().UTC()
	cart, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = newCart(id, now)
	}

	if i := model.FindItem(cart.Products, in.ProductID, in.Size, in.Color); i >= 0 {
		q, err := addQuantity(cart.Products[i].Quantity, in.Quantity)
		if err != nil {
			return nil, err
		}
		cart.Products[i].Quantity = q
	} else {
		cart.Products = append(cart.Products, model.LineItem{
			ProductID:   p.ProductID,
			Name:        p.Name,
			Image:       p.PrimaryImage(),
			Price:       p.Price,
			Size:        in.Size,
			Color:       in.Color,
			Quantity:    in.Quantity,
			Description: in.Description,
			CustomImage: in.CustomImage,
		})
	}
	return s.save(ctx, cart, now)
}

// UpdateQuantity sets the quantity of a line; a quantity of zero or less
// removes it.
func (s *Service) UpdateQuantity(ctx context.Context, id Identity, productID, size, color string, quantity int) (*Cart, error) {
	cart, i, err := s.findLine(ctx, id, productID, size, color)
	if err != nil {
		return nil, err
	}
	if quantity > model.MaxQuantity {
		return nil, tooMany()
	}
	if quantity <= 0 {
		cart.Products = append(cart.Products[:i], cart.Products[i+1:]...)
	} else {
		cart.Products[i].Quantity = quantity
	}
	return s.save(ctx, cart, s.nowFunc().UTC())
}

// RemoveItem deletes a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, id Identity, productID, size, color string) (*Cart, error) {
	cart, i, err := s.findLine(ctx, id, productID, size, color)
	if err != nil {
		return nil, err
	}
	cart.Products = append(cart.Products[:i], cart.Products[i+1:]...)
	return s.save(ctx, cart, s.nowFunc().UTC())
}

// Merge folds the guest cart into the user's cart after login. Matching
// variants have their quantities summed, others are appended. Without a
// user cart the guest cart is re-owned as is. The write of the user cart
// and the removal of the guest cart happen in one transaction.
func (s *Service) Merge(ctx context.Context, guestToken, userID string) (*Cart, error) {
	guest, user := Guest{Token: guestToken}, User{ID: userID}

	guestCart, err := s.store.Get(ctx, guest)
	if err != nil {
		return nil, err
	}
	userCart, err := s.store.Get(ctx, user)
	if err != nil {
		return nil, err
	}

	if guestCart == nil {
		if userCart != nil {
			// already merged
			return userCart, nil
		}
		return nil, apperr.BadRequest("Guest cart not found")
	}
	if len(guestCart.Products) == 0 {
		return nil, apperr.BadRequest("Guest cart is empty")
	}

	now := s.nowFunc().UTC()
	target := guestCart
	if userCart != nil {
		target = userCart
		for _, it := range guestCart.Products {
			if i := model.FindItem(target.Products, it.ProductID, it.Size, it.Color); i >= 0 {
				q, err := addQuantity(target.Products[i].Quantity, it.Quantity)
				if err != nil {
					return nil, err
				}
				target.Products[i].Quantity = q
			} else {
				target.Products = append(target.Products, it)
			}
		}
	} else {
		target.setOwner(user)
	}
	target.recompute()
	target.UpdatedAt = now

	items, err := s.store.ReplaceItems(target, guest)
	if err != nil {
		return nil, err
	}
	if err := s.store.Transact(ctx, items); err != nil {
		return nil, fmt.Errorf("merge cart: %w", err)
	}
	return target, nil
}

// DeleteForUser removes the user's cart. A missing cart is not an error.
func (s *Service) DeleteForUser(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, User{ID: userID})
}

func (s *Service) findLine(ctx context.Context, id Identity, productID, size, color string) (*Cart, int, error) {
	cart, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, -1, err
	}
	if cart == nil {
		return nil, -1, apperr.NotFound("Cart not found")
	}
	i := model.FindItem(cart.Products, productID, size, color)
	if i < 0 {
		return nil, -1, apperr.NotFound("Product not found in cart")
	}
	return cart, i, nil
}

func (s *Service) save(ctx context.Context, cart *Cart, now time.Time) (*Cart, error) {
	cart.recompute()
	cart.UpdatedAt = now
	if err := s.store.Put(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

// addQuantity sums two line quantities, refusing results above MaxQuantity.
func addQuantity(cur, add int) (int, error) {
	if cur < 0 || add < 0 || cur > model.MaxQuantity || add > model.MaxQuantity-cur {
		return 0, tooMany()
	}
	return cur + add, nil
}

func tooMany() error {
	return apperr.BadRequest(fmt.Sprintf("Quantity cannot exceed %d", model.MaxQuantity))
}
