package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/cart"
	"github.com/petalworks/aisle/internal/plugins/account"
	"github.com/petalworks/aisle/internal/plugins/admin"
	"github.com/petalworks/aisle/internal/plugins/catalog"
	"github.com/petalworks/aisle/internal/plugins/contact"
	"github.com/petalworks/aisle/internal/plugins/orders"
	"github.com/petalworks/aisle/internal/plugins/vendor"
	"github.com/petalworks/aisle/internal/session"
	"github.com/petalworks/aisle/internal/upstream"
)

// RegisterRoutes sets up all application routes. It registers public routes
// directly and delegates to each plugin's route registration function.
//
// This is the single place where guard composition lives, and the order is
// deliberate everywhere a role-gated group appears: RequireAuth runs before
// RequireRole, because identity must be resolved before a role can be
// checked.
func (a *App) RegisterRoutes() {
	e := a.Echo

	requireAuth := session.RequireAuth(a.Sessions)

	// Health check endpoint for container orchestration.
	e.GET("/healthz", func(c echo.Context) error {
		if err := a.Redis.Ping(c.Request().Context()).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Public surfaces ---

	// Auth: session snapshot, login, register, logout, refresh, the
	// debounced email-role lookup, and the profile merge (authed).
	accountHandler := account.NewHandler(a.Sessions, account.NewLookupService(a.Upstream, a.Config.Lookup.DebounceWindow))
	account.RegisterRoutes(e, accountHandler, requireAuth)

	// Catalog browsing: anonymous.
	catalog.RegisterRoutes(e, catalog.NewHandler(a.Upstream))

	// Contact form: anonymous, rate limited.
	contact.RegisterRoutes(e, contact.NewHandler(a.Upstream))

	// --- Customer area ---

	customer := e.Group("/api", requireAuth, session.RequireRole(upstream.RoleCustomer))
	cart.RegisterRoutes(customer, cart.NewHandler(a.Carts))

	orderGroup := e.Group("/api/orders", requireAuth, session.RequireRole(upstream.RoleCustomer))
	orders.RegisterRoutes(orderGroup, orders.NewHandler(a.Upstream))

	// --- Vendor dashboard ---

	vendorGroup := e.Group("/api/vendor", requireAuth, session.RequireRole(upstream.RoleVendor))
	vendor.RegisterRoutes(vendorGroup, vendor.NewHandler(a.Upstream))

	// --- Admin area ---

	adminGroup := e.Group("/api/admin", requireAuth, session.RequireRole(upstream.RoleAdmin))
	admin.RegisterRoutes(adminGroup, admin.NewHandler(a.Upstream))
}
