package orders

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the order endpoints on a group the app layer has
// wrapped with RequireAuth and RequireRole(customer).
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/cancel", h.Cancel)
}
