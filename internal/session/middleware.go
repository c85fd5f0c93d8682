package session

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/middleware"
	"github.com/petalworks/aisle/internal/upstream"
)

// Context keys for session data injected by RequireAuth. Downstream
// handlers use the exported getters below.
const (
	contextKeyStore = "session_store"
	contextKeyUser  = "session_user"
)

// RequireAuth returns middleware gating a route subtree on an authenticated
// session. It drives the one-time resolution before deciding anything, and
// it never redirects while the session is still loading: a submit in flight
// elsewhere gets a neutral "resolving" response instead of a bounce.
// Unauthenticated requests get a 401 for JSON callers or a redirect to the
// sign-in route carrying the originally-requested path.
func RequireAuth(m *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := m.Attach(c)
			store.Resolve(c.Request().Context())

			snap := store.Snapshot()

			// Still loading -- no redirect decision can be trusted yet.
			if snap.Loading || snap.Phase == PhaseResolving {
				return c.JSON(http.StatusAccepted, map[string]string{
					"status":  "resolving",
					"message": "session is still resolving, retry shortly",
				})
			}

			if !snap.Authenticated {
				return handleUnauthenticated(c)
			}

			c.Set(contextKeyStore, store)
			c.Set(contextKeyUser, snap.User)
			return next(c)
		}
	}
}

// RequireRole returns middleware restricting a subtree to the given role
// set. It assumes RequireAuth already ran (auth always wraps role: identity
// must be resolved before role can be checked), so it carries no loading
// state of its own. A mismatched role is sent to the safe default route.
func RequireRole(roles ...upstream.Role) echo.MiddlewareFunc {
	allowed := make(map[upstream.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFrom(c)
			if user == nil || !allowed[user.Role] {
				if middleware.WantsJSON(c) {
					return c.JSON(http.StatusForbidden, map[string]string{
						"error":   "forbidden",
						"message": "your account does not have access to this area",
					})
				}
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}

// handleUnauthenticated returns the appropriate response for requests with
// no session: 401 JSON for API callers, a redirect to the sign-in route --
// preserving the originally-requested path -- for browser navigations.
func handleUnauthenticated(c echo.Context) error {
	if middleware.WantsJSON(c) {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}

	next := c.Request().URL.Path
	if q := c.Request().URL.RawQuery; q != "" {
		next += "?" + q
	}
	return c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(next))
}

// --- Exported getters for handlers ---

// StoreFrom retrieves the session store from the Echo context. Returns nil
// when RequireAuth was not applied.
func StoreFrom(c echo.Context) *Store {
	store, ok := c.Get(contextKeyStore).(*Store)
	if !ok {
		return nil
	}
	return store
}

// UserFrom retrieves the authenticated user from the Echo context. Returns
// nil when the request is not authenticated.
func UserFrom(c echo.Context) *upstream.User {
	user, ok := c.Get(contextKeyUser).(*upstream.User)
	if !ok {
		return nil
	}
	return user
}
