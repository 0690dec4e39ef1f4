package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-api/internal/model"
	"recipe-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestExtractClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	// missing header
	ctx, _ := newContext("")
	_, err := extractClaims(ctx)
	require.Error(t, err)

	// bad format
	ctx, _ = newContext("BadHeader")
	_, err = extractClaims(ctx)
	require.Error(t, err)

	// invalid token
	ctx, _ = newContext("Bearer invalid")
	_, err = extractClaims(ctx)
	require.Error(t, err)

	// valid token
	tok, err := service.IssueAccessToken(model.User{ID: 1, IsSuperuser: true}, time.Minute)
	require.NoError(t, err)
	ctx, _ = newContext("Bearer " + tok)
	claims, err := extractClaims(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, claims.UserID)
	require.True(t, claims.IsSuperuser)
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	tok, err := service.IssueAccessToken(model.User{ID: 2}, time.Minute)
	require.NoError(t, err)

	// success path
	ctx, rec := newContext("Bearer " + tok)
	called := false
	handler := RequireAuth(func(c echo.Context) error {
		called = true
		cl := c.Get(ContextUserKey).(*service.CustomClaims)
		require.Equal(t, 2, cl.UserID)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// missing token
	ctx, _ = newContext("")
	called = false
	err = RequireAuth(func(echo.Context) error { called = true; return nil })(ctx)
	require.Error(t, err)
	require.False(t, called)
}

func TestRequireSuperuser(t *testing.T) {
	t.Setenv("JWT_SECRET", "adminsecret")
	superTok, err := service.IssueAccessToken(model.User{ID: 3, IsSuperuser: true}, time.Minute)
	require.NoError(t, err)
	userTok, err := service.IssueAccessToken(model.User{ID: 4, IsSuperuser: false}, time.Minute)
	require.NoError(t, err)

	// superuser ok
	ctx, rec := newContext("Bearer " + superTok)
	called := false
	err = RequireSuperuser(func(c echo.Context) error { called = true; return c.String(http.StatusOK, "ok") })(ctx)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// normal user should fail
	ctx, _ = newContext("Bearer " + userTok)
	called = false
	err = RequireSuperuser(func(c echo.Context) error { called = true; return nil })(ctx)
	require.Error(t, err)
	require.False(t, called)
}
