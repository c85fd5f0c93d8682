// Package admin is the platform administration surface: account and vendor
// moderation, order oversight, category management, and platform settings.
// All routes sit behind RequireAuth + RequireRole(admin); the marketplace
// re-checks the token's role on every call, so the gateway's gate is a
// navigation convenience, not the security boundary.
package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/apperror"
	"github.com/petalworks/aisle/internal/middleware"
	"github.com/petalworks/aisle/internal/sanitize"
	"github.com/petalworks/aisle/internal/session"
	"github.com/petalworks/aisle/internal/upstream"
)

// AdminAPI is the slice of the marketplace client the admin area uses.
type AdminAPI interface {
	AdminListUsers(ctx context.Context, token string, filter upstream.AdminFilter) (*upstream.UserList, error)
	AdminSetUserActive(ctx context.Context, token, userID string, active bool) (*upstream.User, error)
	AdminDeleteUser(ctx context.Context, token, userID string) error

	AdminListVendors(ctx context.Context, token string, filter upstream.AdminFilter) (*upstream.VendorList, error)
	AdminSetVendorVerified(ctx context.Context, token, vendorID string, verified bool) (*upstream.Vendor, error)
	AdminSetVendorActive(ctx context.Context, token, vendorID string, active bool) (*upstream.Vendor, error)

	AdminListOrders(ctx context.Context, token string, filter upstream.AdminFilter) (*upstream.OrderList, error)

	AdminCreateCategory(ctx context.Context, token string, input upstream.CategoryInput) (*upstream.Category, error)
	AdminUpdateCategory(ctx context.Context, token, id string, input upstream.CategoryInput) (*upstream.Category, error)
	AdminDeleteCategory(ctx context.Context, token, id string) error

	AdminGetSettings(ctx context.Context, token string) (*upstream.Settings, error)
	AdminUpdateSettings(ctx context.Context, token string, settings upstream.Settings) (*upstream.Settings, error)
}

// Handler handles the admin endpoints.
type Handler struct {
	api AdminAPI
}

// NewHandler creates a new admin handler.
func NewHandler(api AdminAPI) *Handler {
	return &Handler{api: api}
}

func token(c echo.Context) (string, error) {
	store := session.StoreFrom(c)
	if store == nil || store.Token() == "" {
		return "", apperror.NewUnauthorized("authentication required")
	}
	return store.Token(), nil
}

// parseFilter reads the shared admin listing filters from the query string.
func parseFilter(c echo.Context) upstream.AdminFilter {
	page := middleware.ParsePage(c)
	filter := upstream.AdminFilter{
		Search:  c.QueryParam("q"),
		Status:  c.QueryParam("status"),
		Page:    page.Number,
		PerPage: page.PerPage,
	}
	if role, ok := upstream.ParseRole(c.QueryParam("role")); ok {
		filter.Role = role
	}
	return filter
}

// activeRequest is the body for activate/deactivate row actions.
type activeRequest struct {
	Active bool `json:"active"`
}

// verifiedRequest is the body for verify/reject row actions.
type verifiedRequest struct {
	Verified bool `json:"verified"`
}

// --- Users ---

// Users lists marketplace accounts (GET /api/admin/users).
func (h *Handler) Users(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	list, err := h.api.AdminListUsers(c.Request().Context(), tok, parseFilter(c))
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// SetUserActive activates or deactivates an account
// (PATCH /api/admin/users/:id) and returns the refreshed row.
func (h *Handler) SetUserActive(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	var req activeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	user, err := h.api.AdminSetUserActive(c.Request().Context(), tok, c.Param("id"), req.Active)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account (DELETE /api/admin/users/:id).
func (h *Handler) DeleteUser(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	if err := h.api.AdminDeleteUser(c.Request().Context(), tok, c.Param("id")); err != nil {
		return upstream.MapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Vendors ---

// Vendors lists vendor profiles, including unverified and deactivated ones
// (GET /api/admin/vendors).
func (h *Handler) Vendors(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	list, err := h.api.AdminListVendors(c.Request().Context(), tok, parseFilter(c))
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// SetVendorVerified approves or rejects a vendor application
// (PATCH /api/admin/vendors/:id/verify).
func (h *Handler) SetVendorVerified(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	var req verifiedRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	vendor, err := h.api.AdminSetVendorVerified(c.Request().Context(), tok, c.Param("id"), req.Verified)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, vendor)
}

// SetVendorActive activates or deactivates a storefront
// (PATCH /api/admin/vendors/:id).
func (h *Handler) SetVendorActive(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	var req activeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	vendor, err := h.api.AdminSetVendorActive(c.Request().Context(), tok, c.Param("id"), req.Active)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, vendor)
}

// --- Orders ---

// Orders lists all orders (GET /api/admin/orders).
func (h *Handler) Orders(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	list, err := h.api.AdminListOrders(c.Request().Context(), tok, parseFilter(c))
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// --- Categories ---

// categoryRequest is the create/update payload for a category.
type categoryRequest struct {
	Name        string `json:"name" form:"name"`
	Slug        string `json:"slug" form:"slug"`
	Description string `json:"description" form:"description"`
	ImageURL    string `json:"image_url" form:"image_url"`
}

func validateCategoryRequest(req *categoryRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if req.Slug == "" {
		return "slug is required"
	}
	return ""
}

func (r *categoryRequest) input() upstream.CategoryInput {
	return upstream.CategoryInput{
		Name:        sanitize.Text(r.Name),
		Slug:        r.Slug,
		Description: sanitize.Text(r.Description),
		ImageURL:    r.ImageURL,
	}
}

// CreateCategory adds a catalog category (POST /api/admin/categories).
func (h *Handler) CreateCategory(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if msg := validateCategoryRequest(&req); msg != "" {
		return apperror.NewValidation(msg)
	}
	cat, err := h.api.AdminCreateCategory(c.Request().Context(), tok, req.input())
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusCreated, cat)
}

// UpdateCategory edits a category (PUT /api/admin/categories/:id).
func (h *Handler) UpdateCategory(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if msg := validateCategoryRequest(&req); msg != "" {
		return apperror.NewValidation(msg)
	}
	cat, err := h.api.AdminUpdateCategory(c.Request().Context(), tok, c.Param("id"), req.input())
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, cat)
}

// DeleteCategory removes a category (DELETE /api/admin/categories/:id).
// Categories with vendors still attached come back as a structured
// rejection with the backend's message.
func (h *Handler) DeleteCategory(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	if err := h.api.AdminDeleteCategory(c.Request().Context(), tok, c.Param("id")); err != nil {
		return upstream.MapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Settings ---

// Settings returns the platform configuration (GET /api/admin/settings).
func (h *Handler) Settings(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	settings, err := h.api.AdminGetSettings(c.Request().Context(), tok)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the platform configuration
// (PUT /api/admin/settings).
func (h *Handler) UpdateSettings(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	var settings upstream.Settings
	if err := c.Bind(&settings); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if settings.CommissionRate < 0 || settings.CommissionRate > 1 {
		return apperror.NewValidation("commission rate must be between 0 and 1")
	}
	updated, err := h.api.AdminUpdateSettings(c.Request().Context(), tok, settings)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, updated)
}
