package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/auth"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

// RegisterOrdersRoutes registers order history and admin order routes.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := cfg.Validator

	r.GET("/api/orders/my-orders", cfg.private(), func(c *gin.Context) {
		list, err := cfg.Orders.ListMine(c.Request.Context(), auth.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/api/orders/:id", cfg.private(), func(c *gin.Context) {
		o, err := cfg.Orders.Get(c.Request.Context(), c.Param("id"), auth.UserID(c), auth.IsAdmin(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	admin := r.Group("/api/admin/orders", cfg.admin()...)

	admin.GET("", func(c *gin.Context) {
		list, err := cfg.Orders.ListAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	admin.PUT("/:id", func(c *gin.Context) {
		var req validation.UpdateOrderStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		o, err := cfg.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	admin.DELETE("/:id", func(c *gin.Context) {
		if err := cfg.Orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order removed"})
	})
}
