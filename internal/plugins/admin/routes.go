package admin

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the admin endpoints on a group the app layer has
// wrapped with RequireAuth and RequireRole(admin).
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/users", h.Users)
	g.PATCH("/users/:id", h.SetUserActive)
	g.DELETE("/users/:id", h.DeleteUser)

	g.GET("/vendors", h.Vendors)
	g.PATCH("/vendors/:id", h.SetVendorActive)
	g.PATCH("/vendors/:id/verify", h.SetVendorVerified)

	g.GET("/orders", h.Orders)

	g.POST("/categories", h.CreateCategory)
	g.PUT("/categories/:id", h.UpdateCategory)
	g.DELETE("/categories/:id", h.DeleteCategory)

	g.GET("/settings", h.Settings)
	g.PUT("/settings", h.UpdateSettings)
}
