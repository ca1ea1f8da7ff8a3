package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/auth"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/carts"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

// RegisterCartRoutes registers cart routes. The owner is the signed-in
// user when a valid token is sent, otherwise the guestId of the request.
func RegisterCartRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := cfg.Validator
	optional := cfg.Auth.Optional()

	r.POST("/api/cart", optional, func(c *gin.Context) {
		var req validation.AddCartItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		id, ok := cartIdentity(c, req.GuestID)
		if !ok {
			id = carts.Guest{Token: "guest_" + uuid.NewString()}
		}
		cart, err := cfg.Carts.AddItem(c.Request.Context(), id, carts.AddItem{
			ProductID:   req.ProductID,
			Quantity:    req.Quantity,
			Size:        req.Size,
			Color:       req.Color,
			Description: req.Description,
			CustomImage: req.CustomImage,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	})

	r.PUT("/api/cart", optional, func(c *gin.Context) {
		var req validation.UpdateCartItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		id, ok := cartIdentity(c, req.GuestID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		cart, err := cfg.Carts.UpdateQuantity(c.Request.Context(), id, req.ProductID, req.Size, req.Color, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	})

	r.DELETE("/api/cart", optional, func(c *gin.Context) {
		var req validation.RemoveCartItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		id, ok := cartIdentity(c, req.GuestID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		cart, err := cfg.Carts.RemoveItem(c.Request.Context(), id, req.ProductID, req.Size, req.Color)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	})

	r.GET("/api/cart", optional, func(c *gin.Context) {
		id, ok := cartIdentity(c, c.Query("guestId"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		cart, err := cfg.Carts.Resolve(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if cart == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		c.JSON(http.StatusOK, cart)
	})

	r.POST("/api/cart/merge", cfg.private(), func(c *gin.Context) {
		var req validation.MergeCartRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		cart, err := cfg.Carts.Merge(c.Request.Context(), req.GuestID, auth.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	})
}

func cartIdentity(c *gin.Context, guestID string) (carts.Identity, bool) {
	if uid := auth.UserID(c); uid != "" {
		return carts.User{ID: uid}, true
	}
	if guestID != "" {
		return carts.Guest{Token: guestID}, true
	}
	return nil, false
}
