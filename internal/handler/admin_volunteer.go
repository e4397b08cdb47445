package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
)

// CreateVolunteer handles POST /admin/api/volunteers. New volunteers start
// unapproved unless the request says otherwise; only approved volunteers
// appear in assignment pickers.
func (h *AdminHandler) CreateVolunteer(c echo.Context) error {
	var body struct {
		Name     string  `json:"name"`
		Email    string  `json:"email"`
		Phone    *string `json:"phone"`
		Approved bool    `json:"approved"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	email := strings.TrimSpace(body.Email)
	if name == "" || email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}
	if !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	v := &repository.Volunteer{Name: name, Email: email, Phone: body.Phone, Approved: body.Approved}
	if err := h.Volunteers.Create(c.Request().Context(), v); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// ListVolunteers handles GET /admin/api/volunteers. The optional
// ?approved=true query narrows the list to approved volunteers.
func (h *AdminHandler) ListVolunteers(c echo.Context) error {
	approvedOnly := c.QueryParam("approved") == "true"
	volunteers, err := h.Volunteers.List(c.Request().Context(), approvedOnly)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": volunteers})
}

// GetVolunteer handles GET /admin/api/volunteers/:id.
func (h *AdminHandler) GetVolunteer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	v, err := h.Volunteers.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// UpdateVolunteer handles PATCH /admin/api/volunteers/:id.
func (h *AdminHandler) UpdateVolunteer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cur, err := h.Volunteers.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	var body struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.Email != nil && strings.TrimSpace(*body.Email) != "" {
		email := strings.TrimSpace(*body.Email)
		if !strings.Contains(email, "@") {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
		}
		cur.Email = email
	}
	if body.Phone != nil {
		cur.Phone = body.Phone
	}
	err = h.Volunteers.Update(c.Request().Context(), cur)
	if err != nil && err != repository.ErrNoChange {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, cur)
}

// ApproveVolunteer handles POST /admin/api/volunteers/:id/approve.
func (h *AdminHandler) ApproveVolunteer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Approved *bool `json:"approved"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	approved := true
	if body.Approved != nil {
		approved = *body.Approved
	}
	if err := h.Volunteers.SetApproved(c.Request().Context(), id, approved); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "approved": approved})
}

// DeleteVolunteer handles DELETE /admin/api/volunteers/:id. Assignments
// held by the volunteer are released in the same transaction.
func (h *AdminHandler) DeleteVolunteer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Volunteers.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListVolunteerShifts handles GET /admin/api/volunteers/:id/shifts and
// returns the volunteer's full schedule, past included.
func (h *AdminHandler) ListVolunteerShifts(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Volunteers.GetByID(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	shifts, err := h.Shifts.ListByVolunteer(c.Request().Context(), id, "")
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shifts})
}

// SendLoginLink handles POST /admin/api/volunteers/:id/login-link. It
// queues a schedule email carrying a fresh signed login link; delivery is
// asynchronous and does not block or fail this request.
func (h *AdminHandler) SendLoginLink(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	v, err := h.Volunteers.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	h.notifySchedule(c, v, "login-link")
	return c.JSON(http.StatusAccepted, echo.Map{"queued": true, "email": v.Email})
}
