// Package handlers wires the storefront services to gin routes.
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/auth"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/carts"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/checkout"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/events"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/idempotency"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/logging"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/metrics"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/orders"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/products"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/refunds"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/reviews"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/users"
)

// FileStore keeps uploaded files and returns their URL.
type FileStore interface {
	Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader) (string, error)
}

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	Users       *users.Service
	Tokens      *auth.Tokens
	Auth        *auth.Middleware
	Catalog     *products.Catalog
	Reviews     *reviews.Service
	Carts       *carts.Service
	Checkout    *checkout.Service
	Orders      *orders.Service
	Refunds     *refunds.Service
	Idempotency *idempotency.Store
	Files       FileStore
	Publisher   events.Publisher
	Metrics     metrics.Counter
	Validator   *validatorv10.Validate
}

// Register mounts every API route on r.
func Register(r *gin.Engine, cfg HandlerConfig) {
	if cfg.Publisher == nil {
		cfg.Publisher = events.Nop{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NopCounter{}
	}
	RegisterUserRoutes(r, cfg)
	RegisterProductRoutes(r, cfg)
	RegisterCartRoutes(r, cfg)
	RegisterCheckoutRoutes(r, cfg)
	RegisterOrdersRoutes(r, cfg)
	RegisterRefundRoutes(r, cfg)
	RegisterUploadRoutes(r, cfg)
}

// respondError writes err as a {message} body. Errors without a kind are
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logging.Error("handler", err, logging.Fields{
			RequestID: c.GetString("request_id"),
			UserID:    auth.UserID(c),
			Method:    c.Request.Method,
			Path:      c.FullPath(),
		})
		c.JSON(status, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

// private is the middleware chain for signed-in routes.
func (cfg HandlerConfig) private() gin.HandlerFunc { return cfg.Auth.Protect() }

// admin is the middleware chain for admin routes.
func (cfg HandlerConfig) admin() []gin.HandlerFunc {
	return []gin.HandlerFunc{cfg.Auth.Protect(), cfg.Auth.AdminOnly()}
}

func withAdmin(cfg HandlerConfig, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(cfg.admin(), h)
}
