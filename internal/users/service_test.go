package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamotest"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

const table = "users"

func newService(t *testing.T) (*Service, *dynamotest.Fake) {
	t.Helper()
	db := dynamotest.New().AddTable(table, "user_id", map[string]string{EmailIndex: "email"})
	return NewService(NewStore(db, table)).WithCost(bcrypt.MinCost), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, validation.RegisterRequest{Name: "Ana", Email: "Ana@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, RoleCustomer, u.Role)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	var stored User
	ok, err := db.Load(table, u.UserID, &stored)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := svc.Login(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)

	_, err = svc.Login(ctx, "ana@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid Credentials", err.Error())

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestRegister_Duplicate(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validation.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, validation.RegisterRequest{Name: "Ana 2", Email: "ANA@example.com", Password: "secret2"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Equal(t, "User already exists", err.Error())
	assert.Equal(t, 1, db.Count(table))
}

func TestAdminCRUD(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	admin, err := svc.Create(ctx, validation.CreateUserRequest{Name: "Root", Email: "root@example.com", Password: "secret1", Role: RoleAdmin})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	cust, err := svc.Create(ctx, validation.CreateUserRequest{Name: "Bo", Email: "bo@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, cust.Role)

	_, err = svc.Update(ctx, cust.UserID, validation.UpdateUserRequest{Email: "root@example.com"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	up, err := svc.Update(ctx, cust.UserID, validation.UpdateUserRequest{Name: "Bob", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Bob", up.Name)
	assert.Equal(t, "bo@example.com", up.Email)
	assert.True(t, up.IsAdmin())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, cust.UserID))
	_, err = svc.Get(ctx, cust.UserID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, cust.UserID), apperr.KindNotFound))
}
