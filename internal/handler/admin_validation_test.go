package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/config"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
)

// testAdminHandler builds a handler whose repositories are never reached:
// each test exercises a validation path that fails before any query runs.
func testAdminHandler() *AdminHandler {
	return NewAdminHandler(
		config.Config{},
		repository.NewShowRepo(nil),
		repository.NewShowDateRepo(nil),
		repository.NewShiftRepo(nil),
		repository.NewVolunteerRepo(nil),
	)
}

func jsonContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateShowRequiresName(t *testing.T) {
	h := testAdminHandler()
	c, rec := jsonContext(http.MethodPost, "/admin/api/shows", `{"name":"  "}`)

	require.NoError(t, h.CreateShow(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetShowRejectsBadID(t *testing.T) {
	h := testAdminHandler()
	c, rec := jsonContext(http.MethodGet, "/admin/api/shows/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.GetShow(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid id"}`, rec.Body.String())
}

func TestCreateShowDateRejectsInvertedRange(t *testing.T) {
	h := testAdminHandler()
	body := `{"starts_at":"2024-10-18T21:00:00+10:30","ends_at":"2024-10-18T19:00:00+10:30"}`
	c, rec := jsonContext(http.MethodPost, "/admin/api/shows/1/dates", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.CreateShowDate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "end time must be after start time")
}

func TestCreateVolunteerValidation(t *testing.T) {
	h := testAdminHandler()

	c, rec := jsonContext(http.MethodPost, "/admin/api/volunteers", `{"name":"Alice"}`)
	require.NoError(t, h.CreateVolunteer(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name and email are required")

	c, rec = jsonContext(http.MethodPost, "/admin/api/volunteers", `{"name":"Alice","email":"not-an-email"}`)
	require.NoError(t, h.CreateVolunteer(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email")
}

func TestAssignShiftRequiresIDs(t *testing.T) {
	h := testAdminHandler()
	c, rec := jsonContext(http.MethodPost, "/admin/api/volunteer-shifts", `{"volunteer_id":3}`)

	require.NoError(t, h.AssignShift(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "volunteer_id and shift_id are required")
}

func TestSwapShiftRequiresIDs(t *testing.T) {
	h := testAdminHandler()
	c, rec := jsonContext(http.MethodPost, "/admin/api/volunteer-shifts/swap", `{"volunteer_id":3,"from_shift_id":5}`)

	require.NoError(t, h.SwapShift(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseTimeRange(t *testing.T) {
	start, end, err := parseTimeRange("2024-10-18T19:00:00+10:30", "2024-10-18T21:30:00+10:30")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-18 19:00:00", start)
	assert.Equal(t, "2024-10-18 21:30:00", end)

	_, _, err = parseTimeRange("2024-10-18T19:00:00+10:30", "2024-10-18T19:00:00+10:30")
	assert.EqualError(t, err, "end time must be after start time")

	_, _, err = parseTimeRange("next tuesday", "2024-10-18T21:30:00+10:30")
	assert.EqualError(t, err, "invalid start time format")
}

func TestRepoErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{repository.ErrShowNotFound, http.StatusNotFound},
		{repository.ErrShiftNotFound, http.StatusNotFound},
		{repository.ErrVolunteerNotFound, http.StatusNotFound},
		{repository.ErrEmailExists, http.StatusConflict},
		{repository.ErrShiftTaken, http.StatusConflict},
		{repository.ErrNotAssigned, http.StatusConflict},
	}
	for _, tc := range cases {
		c, rec := jsonContext(http.MethodGet, "/", "")
		require.NoError(t, repoError(c, tc.err))
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}

func TestHealth(t *testing.T) {
	c, rec := jsonContext(http.MethodGet, "/healthz", "")

	require.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
