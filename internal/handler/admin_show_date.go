package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
)

// GetShowDate handles GET /admin/api/dates/:id.
func (h *AdminHandler) GetShowDate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	date, err := h.Dates.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, date)
}

// UpdateShowDate handles PATCH /admin/api/dates/:id and rewrites the
// performance times.
func (h *AdminHandler) UpdateShowDate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		StartsAt string `json:"starts_at"`
		EndsAt   string `json:"ends_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.StartsAt) == "" || strings.TrimSpace(body.EndsAt) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at and ends_at are required"})
	}
	start, end, err := parseTimeRange(body.StartsAt, body.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	err = h.Dates.Update(c.Request().Context(), id, start, end)
	if err != nil && err != repository.ErrNoChange {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, repository.ShowDate{ID: id, StartsAt: start, EndsAt: end})
}

// DeleteShowDate handles DELETE /admin/api/dates/:id, removing the date
// and its shifts.
func (h *AdminHandler) DeleteShowDate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Dates.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListShifts handles GET /admin/api/dates/:id/shifts, returning each shift
// with the assignee's name when one is set.
func (h *AdminHandler) ListShifts(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Dates.GetByID(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	shifts, err := h.Shifts.ListByShowDate(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shifts})
}

// CreateShift handles POST /admin/api/dates/:id/shifts. New shifts start
// unassigned; assignment happens only through the assignment endpoints.
func (h *AdminHandler) CreateShift(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Role     string `json:"role"`
		ArriveAt string `json:"arrive_at"`
		DepartAt string `json:"depart_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	role := strings.TrimSpace(body.Role)
	if role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role is required"})
	}
	if strings.TrimSpace(body.ArriveAt) == "" || strings.TrimSpace(body.DepartAt) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrive_at and depart_at are required"})
	}
	arrive, depart, err := parseTimeRange(body.ArriveAt, body.DepartAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	shift := &repository.Shift{ShowDateID: id, Role: role, ArriveAt: arrive, DepartAt: depart}
	if err := h.Shifts.Create(c.Request().Context(), shift); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, shift)
}
