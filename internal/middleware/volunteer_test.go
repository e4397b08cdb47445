package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/utils"
)

func volunteerRequest(t *testing.T, target, header string) (*httptest.ResponseRecorder, uint64, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint64
	var called bool
	next := func(c echo.Context) error {
		id, ok := VolunteerID(c)
		require.True(t, ok)
		gotID = id
		called = true
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, VolunteerAuth("link-secret")(next)(c))
	return rec, gotID, called
}

func TestVolunteerAuthQueryToken(t *testing.T) {
	tok, err := utils.NewLoginToken("link-secret", 7, 1)
	require.NoError(t, err)

	rec, id, called := volunteerRequest(t, "/v1/my/shifts?token="+tok, "")

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), id)
}

func TestVolunteerAuthBearerToken(t *testing.T) {
	tok, err := utils.NewLoginToken("link-secret", 9, 1)
	require.NoError(t, err)

	rec, id, called := volunteerRequest(t, "/v1/my/shifts", "Bearer "+tok)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(9), id)
}

func TestVolunteerAuthMissingToken(t *testing.T) {
	rec, _, called := volunteerRequest(t, "/v1/my/shifts", "")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing login token"}`, rec.Body.String())
}

func TestVolunteerAuthTamperedToken(t *testing.T) {
	tok, err := utils.NewLoginToken("other-secret", 7, 1)
	require.NoError(t, err)

	rec, _, called := volunteerRequest(t, "/v1/my/shifts?token="+tok, "")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVolunteerIDWithoutAuth(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := VolunteerID(c)
	assert.False(t, ok)
}
