package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/config"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/mailer"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/middleware"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/timeutil"
)

// VolunteerHandler serves the self-service endpoints reached through
// emailed login links. The VolunteerAuth middleware has already resolved
// the link to a volunteer ID.
type VolunteerHandler struct {
	Cfg        config.Config
	Shifts     *repository.ShiftRepo
	Volunteers *repository.VolunteerRepo
}

// NewVolunteerHandler constructs a VolunteerHandler.
func NewVolunteerHandler(cfg config.Config, shifts *repository.ShiftRepo, volunteers *repository.VolunteerRepo) *VolunteerHandler {
	if shifts == nil || volunteers == nil {
		panic("nil repository passed to NewVolunteerHandler")
	}
	return &VolunteerHandler{Cfg: cfg, Shifts: shifts, Volunteers: volunteers}
}

// MyShifts handles GET /v1/my/shifts. Approved volunteers see their
// upcoming shifts with display-formatted times; unapproved volunteers get
// an empty schedule rather than an error, matching the approval gate on
// visibility.
func (h *VolunteerHandler) MyShifts(c echo.Context) error {
	id, ok := middleware.VolunteerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	v, err := h.Volunteers.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	if !v.Approved {
		return c.JSON(http.StatusOK, echo.Map{"volunteer": v.Name, "items": []echo.Map{}})
	}
	shifts, err := h.Shifts.ListByVolunteer(c.Request().Context(), id, timeutil.FormatDB(timeutil.Now()))
	if err != nil {
		return repoError(c, err)
	}
	items := make([]echo.Map, 0, len(shifts))
	for _, s := range shifts {
		item := echo.Map{
			"shift_id":  s.ShiftID,
			"show_name": s.ShowName,
			"role":      s.Role,
		}
		if arrive, errA := timeutil.ParseDB(s.ArriveAt); errA == nil {
			item["date"] = timeutil.FormatDate(arrive)
			item["today"] = timeutil.IsToday(arrive)
			if depart, errD := timeutil.ParseDB(s.DepartAt); errD == nil {
				item["time"] = timeutil.FormatTimeRange(arrive, depart)
			}
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"volunteer": v.Name, "items": items})
}

// SwapMyShift handles POST /v1/my/shifts/:id/swap. A volunteer may move
// onto an unassigned sibling role on the same performance date; the target
// must come from the available-roles list. The swap itself is the same
// transactional operation the admin API uses.
func (h *VolunteerHandler) SwapMyShift(c echo.Context) error {
	id, ok := middleware.VolunteerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	shiftID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		ToShiftID uint64 `json:"to_shift_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ToShiftID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to_shift_id is required"})
	}
	// Restrict volunteer-initiated swaps to sibling roles on the same
	// performance date. The availability read is advisory; the guarded
	// assign inside Swap still decides any race.
	siblings, err := h.Shifts.AvailableRoles(c.Request().Context(), shiftID)
	if err != nil {
		return repoError(c, err)
	}
	eligible := false
	for _, s := range siblings {
		if s.ID == body.ToShiftID {
			eligible = true
			break
		}
	}
	if !eligible {
		return c.JSON(http.StatusConflict, echo.Map{"error": "shift is not available for swap"})
	}
	err = h.Shifts.Swap(c.Request().Context(), id, shiftID, body.ToShiftID)
	if err == repository.ErrShiftTaken {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "shift was taken before your swap completed, your original shift is unchanged",
			"restored": true,
		})
	}
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shift_id": body.ToShiftID})
}

// AvailableSwaps handles GET /v1/my/shifts/:id/available-roles so the
// volunteer page can offer swap targets.
func (h *VolunteerHandler) AvailableSwaps(c echo.Context) error {
	volunteerID, ok := middleware.VolunteerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	shiftID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	shift, err := h.Shifts.GetByID(c.Request().Context(), shiftID)
	if err != nil {
		return repoError(c, err)
	}
	if shift.ParticipantID == nil || *shift.ParticipantID != volunteerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "shift is not yours"})
	}
	shifts, err := h.Shifts.AvailableRoles(c.Request().Context(), shiftID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shifts})
}

// ContactCard handles GET /v1/my/contact-card and serves the theatre
// contact as a downloadable vCard.
func (h *VolunteerHandler) ContactCard(c echo.Context) error {
	if _, ok := middleware.VolunteerID(c); !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	card := mailer.VCard(mailer.Contact{
		Name:  h.Cfg.ContactName,
		Email: h.Cfg.ContactEmail,
		Phone: h.Cfg.ContactPhone,
	})
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="contact.vcf"`)
	return c.Blob(http.StatusOK, "text/vcard", []byte(card))
}
