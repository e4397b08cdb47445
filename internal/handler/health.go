package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports that the service is up. Used by load balancers and
// monitoring.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
