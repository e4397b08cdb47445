package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminRequest(t *testing.T, token, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/api/shows", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, AdminAuth(token)(next)(c))
	return rec, called
}

func TestAdminAuthMissingToken(t *testing.T) {
	rec, called := adminRequest(t, "s3cret", "")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestAdminAuthWrongToken(t *testing.T) {
	rec, called := adminRequest(t, "s3cret", "Bearer nope")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthNotBearer(t *testing.T) {
	rec, called := adminRequest(t, "s3cret", "Basic s3cret")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthValidToken(t *testing.T) {
	rec, called := adminRequest(t, "s3cret", "Bearer s3cret")

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
