package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/auth"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/products"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

// RegisterProductRoutes registers catalog, review and admin product routes.
func RegisterProductRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := cfg.Validator

	r.GET("/api/products", func(c *gin.Context) {
		list, err := cfg.Catalog.List(c.Request.Context(), filterFromQuery(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/api/products/best-seller", func(c *gin.Context) {
		p, err := cfg.Catalog.BestSeller(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.GET("/api/products/new-arrivals", func(c *gin.Context) {
		list, err := cfg.Catalog.NewArrivals(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/api/products/similar/:id", func(c *gin.Context) {
		list, err := cfg.Catalog.Similar(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/api/products/:id", func(c *gin.Context) {
		p, err := cfg.Catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.GET("/api/products/:id/reviews", func(c *gin.Context) {
		list, err := cfg.Reviews.ListForProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/api/products/:id/reviews", cfg.private(), func(c *gin.Context) {
		var req validation.CreateReviewRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		u, _ := auth.CurrentUser(c)
		rev, err := cfg.Reviews.Create(c.Request.Context(), c.Param("id"), u.UserID, u.Name, req.Rating, req.Comment)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rev)
	})

	r.DELETE("/api/admin/reviews/:id", withAdmin(cfg, func(c *gin.Context) {
		if err := cfg.Reviews.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review removed"})
	})...)

	r.GET("/api/admin/products", withAdmin(cfg, func(c *gin.Context) {
		list, err := cfg.Catalog.ListAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})...)

	r.POST("/api/products", withAdmin(cfg, func(c *gin.Context) {
		var req validation.ProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		p, err := cfg.Catalog.Create(c.Request.Context(), auth.UserID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})...)

	r.PUT("/api/products/:id", withAdmin(cfg, func(c *gin.Context) {
		var req validation.ProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		p, err := cfg.Catalog.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})...)

	r.DELETE("/api/products/:id", withAdmin(cfg, func(c *gin.Context) {
		if err := cfg.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
	})...)
}

func filterFromQuery(c *gin.Context) products.Filter {
	f := products.Filter{
		Collection: c.Query("collection"),
		Category:   c.Query("category"),
		Gender:     c.Query("gender"),
		Color:      c.Query("color"),
		Sizes:      csv(c.Query("size")),
		Materials:  csv(c.Query("material")),
		Brands:     csv(c.Query("brand")),
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
	}
	f.MinPrice, _ = strconv.ParseFloat(c.Query("minPrice"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.Query("maxPrice"), 64)
	f.Limit, _ = strconv.Atoi(c.Query("limit"))
	return f
}

func csv(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
