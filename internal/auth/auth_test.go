package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/users"
)

type stubUsers map[string]users.User

func (s stubUsers) Lookup(_ context.Context, id string) (*users.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func TestTokens_RoundTrip(t *testing.T) {
	tok := NewTokens("s3cret", time.Hour)
	raw, err := tok.Issue("u1", users.RoleAdmin)
	require.NoError(t, err)

	claims, err := tok.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, users.RoleAdmin, claims.Role)

	_, err = NewTokens("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Expired(t *testing.T) {
	tok := NewTokens("s3cret", time.Minute)
	tok.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := tok.Issue("u1", users.RoleCustomer)
	require.NoError(t, err)

	_, err = NewTokens("s3cret", time.Minute).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newRouter(t *testing.T) (*gin.Engine, *Tokens) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tok := NewTokens("s3cret", time.Hour)
	mw := NewMiddleware(tok, stubUsers{
		"cust":  {UserID: "cust", Role: users.RoleCustomer},
		"admin": {UserID: "admin", Role: users.RoleAdmin},
	})
	r := gin.New()
	r.GET("/private", mw.Protect(), func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })
	r.GET("/admin", mw.Protect(), mw.AdminOnly(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/optional", mw.Optional(), func(c *gin.Context) { c.String(http.StatusOK, "<"+UserID(c)+">") })
	return r, tok
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	r, tok := newRouter(t)
	cust, _ := tok.Issue("cust", users.RoleCustomer)
	admin, _ := tok.Issue("admin", users.RoleAdmin)
	ghost, _ := tok.Issue("ghost", users.RoleAdmin)
	// role claim says admin but the stored user is a customer
	forged, _ := tok.Issue("cust", users.RoleAdmin)

	w := do(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Not authorized, no token"}`, w.Body.String())

	w = do(r, "/private", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Not authorized, token failed"}`, w.Body.String())

	w = do(r, "/private", ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/private", cust)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cust", w.Body.String())

	w = do(r, "/admin", forged)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Not authorized as an admin"}`, w.Body.String())

	w = do(r, "/admin", admin)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "<>", do(r, "/optional", "").Body.String())
	assert.Equal(t, "<>", do(r, "/optional", "garbage").Body.String())
	assert.Equal(t, "<cust>", do(r, "/optional", cust).Body.String())
}
