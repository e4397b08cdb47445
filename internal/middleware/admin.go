// Package middleware contains reusable HTTP middleware: admin bearer
// authentication, volunteer login-link authentication, Redis response
// caching and rate limiting.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AdminAuth guards the admin API with a static bearer token. The compare is
// constant-time so the token cannot be guessed byte by byte. A missing or
// wrong token yields 401 before any handler runs, so unauthenticated
// requests can never mutate state.
func AdminAuth(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			return next(c)
		}
	}
}
