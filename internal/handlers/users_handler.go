package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/auth"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/events"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/logging"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/metrics"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/users"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

type authResponse struct {
	User  users.User `json:"user"`
	Token string     `json:"token"`
}

// RegisterUserRoutes registers account and admin user routes.
func RegisterUserRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := cfg.Validator

	r.POST("/api/users/register", func(c *gin.Context) {
		ctx := c.Request.Context()
		var req validation.RegisterRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		u, err := cfg.Users.Register(ctx, req)
		if err != nil {
			respondError(c, err)
			return
		}
		token, err := cfg.Tokens.Issue(u.UserID, u.Role)
		if err != nil {
			respondError(c, err)
			return
		}

		ev := events.New(events.TypeUserRegistered, u.UserID, u.UserID, map[string]any{"email": u.Email, "name": u.Name})
		if err := cfg.Publisher.Publish(ctx, ev); err != nil {
			logging.Error("publish_event", err, logging.Fields{UserID: u.UserID, Entity: "user", EntityID: u.UserID})
		}
		if err := cfg.Metrics.Count(ctx, metrics.UsersRegistered, nil); err != nil {
			logging.Error("metric", err, logging.Fields{UserID: u.UserID})
		}
		c.JSON(http.StatusCreated, authResponse{User: *u, Token: token})
	})

	r.POST("/api/users/login", func(c *gin.Context) {
		var req validation.LoginRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		u, err := cfg.Users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		token, err := cfg.Tokens.Issue(u.UserID, u.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, authResponse{User: *u, Token: token})
	})

	r.GET("/api/users/profile", cfg.private(), func(c *gin.Context) {
		u, _ := auth.CurrentUser(c)
		c.JSON(http.StatusOK, u)
	})

	r.GET("/api/admin/users", withAdmin(cfg, func(c *gin.Context) {
		list, err := cfg.Users.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})...)

	r.POST("/api/admin/users", withAdmin(cfg, func(c *gin.Context) {
		var req validation.CreateUserRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		u, err := cfg.Users.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": u})
	})...)

	r.PUT("/api/admin/users/:id", withAdmin(cfg, func(c *gin.Context) {
		var req validation.UpdateUserRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		u, err := cfg.Users.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": u})
	})...)

	r.DELETE("/api/admin/users/:id", withAdmin(cfg, func(c *gin.Context) {
		if err := cfg.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	})...)
}
