package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/auth"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/refunds"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

// RegisterRefundRoutes registers return/refund routes for customers and admins.
func RegisterRefundRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := cfg.Validator
	g := r.Group("/api/return-refund", cfg.private())

	g.POST("/create", func(c *gin.Context) {
		var req validation.CreateRefundRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		rr, err := cfg.Refunds.Create(c.Request.Context(), auth.UserID(c), req.OrderID, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rr)
	})

	g.GET("/my-requests", func(c *gin.Context) {
		list, err := cfg.Refunds.ListMine(c.Request.Context(), auth.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.PUT("/update/:id", func(c *gin.Context) {
		var req validation.UpdateRefundRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		rr, err := cfg.Refunds.UpdateReason(c.Request.Context(), c.Param("id"), auth.UserID(c), req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rr)
	})

	g.DELETE("/delete/:id", func(c *gin.Context) {
		if err := cfg.Refunds.Delete(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request deleted successfully"})
	})

	admin := r.Group("/api/admin/return-refund", cfg.admin()...)

	admin.GET("", func(c *gin.Context) {
		list, err := cfg.Refunds.ListAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	decide := func(fn func(*gin.Context, string) (*refunds.Request, error)) gin.HandlerFunc {
		return func(c *gin.Context) {
			rr, err := fn(c, c.Param("id"))
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, rr)
		}
	}
	admin.PUT("/:id/approve", decide(func(c *gin.Context, id string) (*refunds.Request, error) {
		return cfg.Refunds.Approve(c.Request.Context(), id)
	}))
	admin.PUT("/:id/reject", decide(func(c *gin.Context, id string) (*refunds.Request, error) {
		return cfg.Refunds.Reject(c.Request.Context(), id)
	}))
}
