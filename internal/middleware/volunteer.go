package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/utils"
)

// volunteerIDKey is the context key under which VolunteerAuth stores the
// authenticated volunteer's ID.
const volunteerIDKey = "volunteer_id"

// VolunteerAuth validates a login-link token and injects the volunteer ID
// into the request context. The token arrives either as a `token` query
// parameter (the form used by emailed links) or as a Bearer header once a
// client has extracted it. Expired or tampered tokens yield 401.
func VolunteerAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.QueryParam("token")
			if raw == "" {
				if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					raw = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing login token"})
			}
			id, err := utils.ParseLoginToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired login token"})
			}
			c.Set(volunteerIDKey, id)
			return next(c)
		}
	}
}

// VolunteerID extracts the authenticated volunteer's ID set by
// VolunteerAuth. The boolean is false when the middleware did not run.
func VolunteerID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(volunteerIDKey).(uint64)
	return id, ok
}
