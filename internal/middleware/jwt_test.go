package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/facility-reservation/internal/utils"
)

const testSecret = "test-secret"

func run(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "MEMBER", 5)
	require.NoError(t, err)

	rec, c := run(t, JWTAuth(testSecret), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MEMBER", c.Get("role"))
	assert.NotNil(t, c.Get("user_id"))
}

func TestJWTAuthRejectsMissingAndForged(t *testing.T) {
	rec, _ := run(t, JWTAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := utils.NewAccessToken("other-secret", 42, "MEMBER", 5)
	require.NoError(t, err)
	rec, _ = run(t, JWTAuth(testSecret), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	allowAdmin := RequireRole("ADMIN")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "MEMBER")
	h := allowAdmin(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("role", "ADMIN")
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
