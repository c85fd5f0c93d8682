package contact

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/middleware"
)

// RegisterRoutes sets up the contact form endpoint. Anonymous write, so it
// gets a tight rate limit.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/api/contact", h.Send, middleware.RateLimit(5, time.Minute))
}
