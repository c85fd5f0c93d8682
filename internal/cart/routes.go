package cart

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes adds the cart endpoints to the authenticated customer
// group. The badge count endpoint is polled by the bottom navigation.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/cart", h.Get)
	g.GET("/cart/count", h.Count)
	g.POST("/cart/items", h.Add)
	g.DELETE("/cart/items/:kind/:ref", h.Remove)
	g.DELETE("/cart", h.Clear)
}
