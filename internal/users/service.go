// Package users manages accounts: registration, login and admin CRUD.
package users

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

// Service implements the account operations.
type Service struct {
	store   *Store
	cost    int
	nowFunc func() time.Time
}

// NewService creates a Service hashing passwords at bcrypt.DefaultCost.
func NewService(store *Store) *Service {
	return &Service{store: store, cost: bcrypt.DefaultCost, nowFunc: time.Now}
}

// WithCost overrides the bcrypt cost, tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// Register creates a customer account.
func (s *Service) Register(ctx context.Context, req validation.RegisterRequest) (*User, error) {
	return s.create(ctx, req.Name, req.Email, req.Password, RoleCustomer)
}

// Login checks the credentials and returns the user.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.BadRequest("Invalid Credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.BadRequest("Invalid Credentials")
	}
	return u, nil
}

// Get returns a user or NotFound.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}

// Lookup returns the user or (nil, nil).
func (s *Service) Lookup(ctx context.Context, id string) (*User, error) {
	return s.store.Get(ctx, id)
}

// List returns all users, newest first.
func (s *Service) List(ctx context.Context) ([]User, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// Create is the admin form of Register and may set the role.
func (s *Service) Create(ctx context.Context, req validation.CreateUserRequest) (*User, error) {
	role := req.Role
	if role == "" {
		role = RoleCustomer
	}
	return s.create(ctx, req.Name, req.Email, req.Password, role)
}

// Update changes name, email and role of a user.
func (s *Service) Update(ctx context.Context, id string, req validation.UpdateUserRequest) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" {
		email := strings.ToLower(req.Email)
		if email != u.Email {
			other, err := s.store.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, apperr.BadRequest("User already exists")
			}
			u.Email = email
		}
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	u.UpdatedAt = s.nowFunc().UTC()
	if err := s.store.Put(ctx, *u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("User not found")
	}
	return nil
}

// create checks email uniqueness through the index before writing; two
// concurrent registrations with the same email can both pass the check.
func (s *Service) create(ctx context.Context, name, email, password, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest("User already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.nowFunc().UTC()
	u := User{
		UserID:       uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, dynamo.ErrConditionFailed) {
			return nil, apperr.BadRequest("User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}
