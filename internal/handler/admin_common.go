// Package handler contains the HTTP handlers. Admin handlers assume the
// AdminAuth middleware already ran; volunteer handlers assume VolunteerAuth.
// Every handler follows the same shape: bind, validate, call the
// repository, map repository errors onto HTTP statuses.
package handler

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/config"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/timeutil"
)

// AdminHandler groups the repositories behind the admin API.
type AdminHandler struct {
	Cfg        config.Config
	Shows      *repository.ShowRepo
	Dates      *repository.ShowDateRepo
	Shifts     *repository.ShiftRepo
	Volunteers *repository.VolunteerRepo
}

// NewAdminHandler constructs an AdminHandler. All repositories must be
// non-nil.
func NewAdminHandler(cfg config.Config, shows *repository.ShowRepo, dates *repository.ShowDateRepo, shifts *repository.ShiftRepo, volunteers *repository.VolunteerRepo) *AdminHandler {
	if shows == nil || dates == nil || shifts == nil || volunteers == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Cfg: cfg, Shows: shows, Dates: dates, Shifts: shifts, Volunteers: volunteers}
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// repoError translates repository sentinel errors into JSON responses:
// missing rows to 404, conflicting state to 409, an unreachable database
// to 503 and everything else to 500. Nothing is swallowed; unknown errors
// surface as a generic 500 with the detail left in the server log by Echo.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrShowNotFound),
		errors.Is(err, repository.ErrShowDateNotFound),
		errors.Is(err, repository.ErrShiftNotFound),
		errors.Is(err, repository.ErrVolunteerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrShiftTaken),
		errors.Is(err, repository.ErrNotAssigned),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database unavailable"})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// parseTimeRange validates and converts a start/end pair, requiring the
// end to fall strictly after the start.
func parseTimeRange(start, end string) (string, string, error) {
	st, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return "", "", errors.New("invalid start time format")
	}
	et, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return "", "", errors.New("invalid end time format")
	}
	if !et.After(st) {
		return "", "", errors.New("end time must be after start time")
	}
	return timeutil.FormatDB(st), timeutil.FormatDB(et), nil
}
