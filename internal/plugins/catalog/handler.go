// Package catalog is the public browse surface: categories, vendor
// storefronts, their services, packages, portfolio, and availability. No
// session required; everything proxies the marketplace read API with
// pagination and filters passed through. Backend failures surface as error
// responses -- the gateway never substitutes placeholder records.
package catalog

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/apperror"
	"github.com/petalworks/aisle/internal/middleware"
	"github.com/petalworks/aisle/internal/upstream"
)

// CatalogAPI is the slice of the marketplace client the browse surface
// uses. Narrowed to an interface so tests can stub the backend.
type CatalogAPI interface {
	ListCategories(ctx context.Context, page, perPage int) (*upstream.CategoryList, error)
	ListVendors(ctx context.Context, filter upstream.CatalogFilter) (*upstream.VendorList, error)
	GetVendor(ctx context.Context, id string) (*upstream.Vendor, error)
	ListVendorServices(ctx context.Context, vendorID string, page, perPage int) (*upstream.ServiceList, error)
	GetService(ctx context.Context, id string) (*upstream.Service, error)
	ListVendorPackages(ctx context.Context, vendorID string, page, perPage int) (*upstream.PackageList, error)
	GetPackage(ctx context.Context, id string) (*upstream.Package, error)
	ListVendorPortfolio(ctx context.Context, vendorID string, page, perPage int) (*upstream.PortfolioList, error)
	ListVendorAvailability(ctx context.Context, vendorID, month string) (*upstream.AvailabilityList, error)
}

// Handler handles the public browse endpoints.
type Handler struct {
	api CatalogAPI
}

// NewHandler creates a new catalog handler.
func NewHandler(api CatalogAPI) *Handler {
	return &Handler{api: api}
}

// Categories lists service categories (GET /api/categories).
func (h *Handler) Categories(c echo.Context) error {
	page := middleware.ParsePage(c)
	list, err := h.api.ListCategories(c.Request().Context(), page.Number, page.PerPage)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Vendors lists vendors matching the browse filters (GET /api/vendors).
func (h *Handler) Vendors(c echo.Context) error {
	page := middleware.ParsePage(c)
	list, err := h.api.ListVendors(c.Request().Context(), upstream.CatalogFilter{
		CategoryID: c.QueryParam("category_id"),
		City:       c.QueryParam("city"),
		Search:     c.QueryParam("q"),
		Page:       page.Number,
		PerPage:    page.PerPage,
	})
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Vendor returns one vendor's storefront (GET /api/vendors/:id).
func (h *Handler) Vendor(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return apperror.NewBadRequest("vendor id is required")
	}
	vendor, err := h.api.GetVendor(c.Request().Context(), id)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, vendor)
}

// VendorServices lists a vendor's offerings (GET /api/vendors/:id/services).
func (h *Handler) VendorServices(c echo.Context) error {
	page := middleware.ParsePage(c)
	list, err := h.api.ListVendorServices(c.Request().Context(), c.Param("id"), page.Number, page.PerPage)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Service returns one service (GET /api/services/:id).
func (h *Handler) Service(c echo.Context) error {
	svc, err := h.api.GetService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, svc)
}

// VendorPackages lists a vendor's bundles (GET /api/vendors/:id/packages).
func (h *Handler) VendorPackages(c echo.Context) error {
	page := middleware.ParsePage(c)
	list, err := h.api.ListVendorPackages(c.Request().Context(), c.Param("id"), page.Number, page.PerPage)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Package returns one package (GET /api/packages/:id).
func (h *Handler) Package(c echo.Context) error {
	pkg, err := h.api.GetPackage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, pkg)
}

// VendorPortfolio lists a vendor's gallery (GET /api/vendors/:id/portfolio).
func (h *Handler) VendorPortfolio(c echo.Context) error {
	page := middleware.ParsePage(c)
	list, err := h.api.ListVendorPortfolio(c.Request().Context(), c.Param("id"), page.Number, page.PerPage)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// VendorAvailability lists a vendor's open dates for a month
// (GET /api/vendors/:id/availability?month=2026-09).
func (h *Handler) VendorAvailability(c echo.Context) error {
	list, err := h.api.ListVendorAvailability(c.Request().Context(), c.Param("id"), c.QueryParam("month"))
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}
