package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/queue"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
	queue_publisher "github.com/iliyamo/theatre-volunteer-shifts/internal/service"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/timeutil"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/utils"
)

// AssignShift handles POST /admin/api/volunteer-shifts. Assignment is not
// idempotent: repeating a successful assign returns 409, so a caller whose
// request timed out must re-query the shift before retrying.
func (h *AdminHandler) AssignShift(c echo.Context) error {
	var body struct {
		VolunteerID uint64 `json:"volunteer_id"`
		ShiftID     uint64 `json:"shift_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.VolunteerID == 0 || body.ShiftID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "volunteer_id and shift_id are required"})
	}
	if err := h.Shifts.Assign(c.Request().Context(), body.VolunteerID, body.ShiftID); err != nil {
		return repoError(c, err)
	}
	if v, err := h.Volunteers.GetByID(c.Request().Context(), body.VolunteerID); err == nil {
		h.notifySchedule(c, v, "assigned")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"volunteer_id": body.VolunteerID,
		"shift_id":     body.ShiftID,
	})
}

// UnassignShift handles DELETE /admin/api/volunteers/:id/shifts/:shiftID.
// The shift must currently be held by the named volunteer.
func (h *AdminHandler) UnassignShift(c echo.Context) error {
	volunteerID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	shiftID, err := pathID(c, "shiftID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Shifts.Unassign(c.Request().Context(), volunteerID, shiftID); err != nil {
		return repoError(c, err)
	}
	if v, err := h.Volunteers.GetByID(c.Request().Context(), volunteerID); err == nil {
		h.notifySchedule(c, v, "unassigned")
	}
	return c.NoContent(http.StatusNoContent)
}

// SwapShift handles POST /admin/api/volunteer-shifts/swap. Both mutations
// run in one database transaction: when the target shift turns out to be
// taken the whole swap rolls back and the volunteer keeps their original
// shift. That rolled-back outcome is reported distinctly ("restored":
// true) so callers can tell it apart from a swap that never started.
func (h *AdminHandler) SwapShift(c echo.Context) error {
	var body struct {
		VolunteerID uint64 `json:"volunteer_id"`
		FromShiftID uint64 `json:"from_shift_id"`
		ToShiftID   uint64 `json:"to_shift_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.VolunteerID == 0 || body.FromShiftID == 0 || body.ToShiftID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "volunteer_id, from_shift_id and to_shift_id are required"})
	}
	err := h.Shifts.Swap(c.Request().Context(), body.VolunteerID, body.FromShiftID, body.ToShiftID)
	if err == repository.ErrShiftTaken {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "target shift already assigned, original assignment restored",
			"restored": true,
		})
	}
	if err != nil {
		return repoError(c, err)
	}
	if v, err := h.Volunteers.GetByID(c.Request().Context(), body.VolunteerID); err == nil {
		h.notifySchedule(c, v, "swapped")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"volunteer_id": body.VolunteerID,
		"shift_id":     body.ToShiftID,
	})
}

// notifySchedule queues a schedule email for the volunteer with a fresh
// login link and their upcoming shifts. Failures are logged and otherwise
// ignored: email is a side channel and never fails the admin request.
func (h *AdminHandler) notifySchedule(c echo.Context, v *repository.Volunteer, reason string) {
	ctx := c.Request().Context()
	shifts, err := h.Shifts.ListByVolunteer(ctx, v.ID, timeutil.FormatDB(timeutil.Now()))
	if err != nil {
		log.Printf("notify: load schedule for volunteer %d: %v", v.ID, err)
		shifts = nil
	}
	token, err := utils.NewLoginToken(h.Cfg.LinkSecret, v.ID, h.Cfg.LinkTTLHours)
	if err != nil {
		log.Printf("notify: mint login token for volunteer %d: %v", v.ID, err)
		return
	}
	ev := queue.ScheduleEmailEvent{
		VolunteerID: v.ID,
		Name:        v.Name,
		Email:       v.Email,
		Reason:      reason,
		LoginURL:    h.Cfg.PublicBaseURL + "/v1/my/shifts?token=" + token,
		Shifts:      shifts,
		QueuedAt:    timeutil.FormatDB(timeutil.Now()),
	}
	_ = queue_publisher.PublishScheduleEmail(ctx, ev)
}
