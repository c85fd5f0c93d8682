package account

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/middleware"
)

// RegisterRoutes sets up the auth endpoints. Most are public -- the session
// snapshot and the submit endpoints must work for anonymous browsers -- and
// only the profile merge sits behind the auth guard, which the app layer
// passes in so guard composition stays in one place.
//
// Submit endpoints are rate-limited to blunt brute-force and credential
// stuffing: 10 login attempts per IP per minute, 5 registrations. The
// lookup endpoint gets a higher ceiling since it fires per keystroke.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc) {
	e.GET("/api/auth/session", h.Session)
	e.POST("/api/auth/login", h.Login, middleware.RateLimit(10, time.Minute))
	e.POST("/api/auth/register", h.Register, middleware.RateLimit(5, time.Minute))
	e.POST("/api/auth/logout", h.Logout)
	e.POST("/api/auth/refresh", h.Refresh)
	e.GET("/api/auth/email-role", h.EmailRole, middleware.RateLimit(60, time.Minute))

	e.PATCH("/api/auth/profile", h.Profile, requireAuth)
}
