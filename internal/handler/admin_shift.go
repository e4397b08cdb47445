package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
)

// GetShift handles GET /admin/api/shifts/:id.
func (h *AdminHandler) GetShift(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	shift, err := h.Shifts.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, shift)
}

// UpdateShift handles PATCH /admin/api/shifts/:id and rewrites the role
// and times. The assignment is untouched; use the assignment endpoints for
// that.
func (h *AdminHandler) UpdateShift(c echo.Context) error {
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
	if role == "" || strings.TrimSpace(body.ArriveAt) == "" || strings.TrimSpace(body.DepartAt) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role, arrive_at and depart_at are required"})
	}
	arrive, depart, err := parseTimeRange(body.ArriveAt, body.DepartAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	err = h.Shifts.Update(c.Request().Context(), id, role, arrive, depart)
	if err != nil && err != repository.ErrNoChange {
		return repoError(c, err)
	}
	fresh, err := h.Shifts.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, fresh)
}

// DeleteShift handles DELETE /admin/api/shifts/:id.
func (h *AdminHandler) DeleteShift(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Shifts.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AvailableVolunteers handles GET /admin/api/shifts/:id/available-volunteers.
// It lists approved volunteers holding no shift on the same performance
// date, which keeps double-bookings out of the assignment picker.
func (h *AdminHandler) AvailableVolunteers(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	volunteers, err := h.Shifts.AvailableVolunteers(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": volunteers})
}

// AvailableRoles handles GET /admin/api/shifts/:id/available-roles,
// listing the unassigned sibling shifts a volunteer could swap onto.
func (h *AdminHandler) AvailableRoles(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	shifts, err := h.Shifts.AvailableRoles(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shifts})
}
