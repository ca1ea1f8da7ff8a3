package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/auth"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/checkout"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/idempotency"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/logging"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

// IdempotencyHeader lets clients retry checkout creation safely.
const IdempotencyHeader = "Idempotency-Key"

// RegisterCheckoutRoutes registers checkout routes. All of them need a signed-in user.
func RegisterCheckoutRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := cfg.Validator
	g := r.Group("/api/checkout", cfg.private())

	g.POST("", func(c *gin.Context) {
		ctx := c.Request.Context()

		// Bind + validate request
		var req validation.CreateCheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		userID := auth.UserID(c)

		// Optional idempotency key: a repeat gets the first answer back
		var idempKey string
		if h := c.GetHeader(IdempotencyHeader); h != "" && cfg.Idempotency != nil {
			idempKey = idempotency.Key("checkout", userID, h)
			proceed, err := claimKey(c, cfg.Idempotency, idempKey)
			if err != nil {
				respondError(c, err)
				return
			}
			if !proceed {
				return
			}
		}

		co, err := cfg.Checkout.Create(ctx, userID, checkout.CreateInput{
			Items:           req.LineItems(),
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			TotalPrice:      req.TotalPrice,
		})
		if err != nil {
			if idempKey != "" {
				// let the client retry with the same key
				if markErr := cfg.Idempotency.MarkFailed(ctx, idempKey, err.Error()); markErr != nil {
					logging.Error("idempotency_mark_failed", markErr, logging.Fields{UserID: userID, Entity: "checkout"})
				}
			}
			respondError(c, err)
			return
		}

		body, err := json.Marshal(co)
		if err != nil {
			respondError(c, err)
			return
		}
		if idempKey != "" {
			if err := cfg.Idempotency.MarkDone(ctx, idempKey, co.CheckoutID, string(body), http.StatusCreated); err != nil {
				logging.Error("idempotency_mark_done", err, logging.Fields{UserID: userID, Entity: "checkout", EntityID: co.CheckoutID})
			}
		}
		c.Header("Location", fmt.Sprintf("/api/checkout/%s", co.CheckoutID))
		c.Data(http.StatusCreated, "application/json; charset=utf-8", body)
	})

	g.GET("/:id", func(c *gin.Context) {
		co, err := cfg.Checkout.Get(c.Request.Context(), c.Param("id"), auth.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, co)
	})

	// Trusts the client's payment status; the provider is not consulted.
	g.PUT("/:id/pay", func(c *gin.Context) {
		var req validation.PayCheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		co, err := cfg.Checkout.MarkPaid(c.Request.Context(), c.Param("id"), req.PaymentStatus, req.PaymentDetails)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, co)
	})

	g.POST("/:id/finalize", func(c *gin.Context) {
		order, err := cfg.Checkout.Finalize(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	})

	g.PUT("/:id/payment-proof", func(c *gin.Context) {
		fh, err := c.FormFile("paymentProof")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()

		co, err := cfg.Checkout.AttachPaymentProof(c.Request.Context(), c.Param("id"), auth.UserID(c), fh.Filename, fh.Header.Get("Content-Type"), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, co)
	})
}

// claimKey takes ownership of an idempotency key. When another request
// already owns it the stored answer (or 202 while it runs) is written and
// false is returned.
func claimKey(c *gin.Context, store *idempotency.Store, key string) (bool, error) {
	ctx := c.Request.Context()
	created, err := store.Begin(ctx, key, "")
	if err != nil {
		return false, err
	}
	if created {
		return true, nil
	}

	rec, err := store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if rec == nil {
		// expired between the two calls
		return store.Begin(ctx, key, "")
	}
	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ResponseBody != "" && json.Valid([]byte(rec.ResponseBody)) {
			c.Data(rec.ResponseStatus, "application/json; charset=utf-8", []byte(rec.ResponseBody))
		} else {
			c.JSON(http.StatusOK, gin.H{"id": rec.ResourceID})
		}
		return false, nil
	case idempotency.StatusFailed:
		retaken, err := store.Retake(ctx, key)
		if err != nil || retaken {
			return retaken, err
		}
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
	return false, nil
}
