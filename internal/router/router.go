// Package router wires handlers, middleware and routes together.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/config"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/handler"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAdmin mounts the admin API under /admin/api. Every route is
// guarded by the static bearer token and rate limited; an invalid token is
// rejected before any handler can touch the database.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, cfg config.Config, rdb *redis.Client) {
	g := e.Group("/admin/api")
	g.Use(middleware.AdminAuth(cfg.AdminToken))
	g.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	// Shows and their performance dates.
	g.POST("/shows", h.CreateShow)
	g.GET("/shows", h.ListShows)
	g.GET("/shows/:id", h.GetShow)
	g.PATCH("/shows/:id", h.UpdateShow)
	g.DELETE("/shows/:id", h.DeleteShow)
	g.GET("/shows/:id/dates", h.ListShowDates)
	g.POST("/shows/:id/dates", h.CreateShowDate)

	// Performance dates and their shifts.
	g.GET("/dates/:id", h.GetShowDate)
	g.PATCH("/dates/:id", h.UpdateShowDate)
	g.DELETE("/dates/:id", h.DeleteShowDate)
	g.GET("/dates/:id/shifts", h.ListShifts)
	g.POST("/dates/:id/shifts", h.CreateShift)

	// Shifts and assignment candidates.
	g.GET("/shifts/:id", h.GetShift)
	g.PATCH("/shifts/:id", h.UpdateShift)
	g.DELETE("/shifts/:id", h.DeleteShift)
	g.GET("/shifts/:id/available-volunteers", h.AvailableVolunteers)
	g.GET("/shifts/:id/available-roles", h.AvailableRoles)

	// Volunteers.
	g.POST("/volunteers", h.CreateVolunteer)
	g.GET("/volunteers", h.ListVolunteers)
	g.GET("/volunteers/:id", h.GetVolunteer)
	g.PATCH("/volunteers/:id", h.UpdateVolunteer)
	g.POST("/volunteers/:id/approve", h.ApproveVolunteer)
	g.DELETE("/volunteers/:id", h.DeleteVolunteer)
	g.GET("/volunteers/:id/shifts", h.ListVolunteerShifts)
	g.POST("/volunteers/:id/login-link", h.SendLoginLink)

	// The assignment workflow.
	g.POST("/volunteer-shifts", h.AssignShift)
	g.DELETE("/volunteers/:id/shifts/:shiftID", h.UnassignShift)
	g.POST("/volunteer-shifts/swap", h.SwapShift)
}

// RegisterVolunteer mounts the self-service endpoints reached through
// emailed login links under /v1/my. GET responses are cached per
// volunteer.
func RegisterVolunteer(e *echo.Echo, h *handler.VolunteerHandler, cfg config.Config, rdb *redis.Client) {
	g := e.Group("/v1/my")
	g.Use(middleware.VolunteerAuth(cfg.LinkSecret))
	g.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))

	g.GET("/shifts", h.MyShifts)
	g.GET("/shifts/:id/available-roles", h.AvailableSwaps)
	g.POST("/shifts/:id/swap", h.SwapMyShift)
	g.GET("/contact-card", h.ContactCard)
}
