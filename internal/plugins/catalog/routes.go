package catalog

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the public browse endpoints. No guards: browsing
// works for anonymous visitors.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/api/categories", h.Categories)
	e.GET("/api/vendors", h.Vendors)
	e.GET("/api/vendors/:id", h.Vendor)
	e.GET("/api/vendors/:id/services", h.VendorServices)
	e.GET("/api/vendors/:id/packages", h.VendorPackages)
	e.GET("/api/vendors/:id/portfolio", h.VendorPortfolio)
	e.GET("/api/vendors/:id/availability", h.VendorAvailability)
	e.GET("/api/services/:id", h.Service)
	e.GET("/api/packages/:id", h.Package)
}
