package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
)

// CreateShow handles POST /admin/api/shows.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	show := &repository.Show{Name: name}
	if err := h.Shows.Create(c.Request().Context(), show); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, show)
}

// ListShows handles GET /admin/api/shows and returns every show with its
// date and shift counts.
func (h *AdminHandler) ListShows(c echo.Context) error {
	shows, err := h.Shows.List(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}

// GetShow handles GET /admin/api/shows/:id.
func (h *AdminHandler) GetShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	show, err := h.Shows.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, show)
}

// UpdateShow handles PATCH /admin/api/shows/:id and renames a show.
func (h *AdminHandler) UpdateShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	err = h.Shows.Update(c.Request().Context(), id, name)
	if err != nil && err != repository.ErrNoChange {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, repository.Show{ID: id, Name: name})
}

// DeleteShow handles DELETE /admin/api/shows/:id. The cascade removes the
// show's dates and shifts in one transaction; assigned volunteers simply
// end up with fewer shifts.
func (h *AdminHandler) DeleteShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Shows.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListShowDates handles GET /admin/api/shows/:id/dates.
func (h *AdminHandler) ListShowDates(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Shows.GetByID(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	dates, err := h.Dates.ListByShow(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": dates})
}

// CreateShowDate handles POST /admin/api/shows/:id/dates. Times arrive as
// RFC3339 and are stored in the fixed theatre timezone.
func (h *AdminHandler) CreateShowDate(c echo.Context) error {
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
	date := &repository.ShowDate{ShowID: id, StartsAt: start, EndsAt: end}
	if err := h.Dates.Create(c.Request().Context(), date); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, date)
}
