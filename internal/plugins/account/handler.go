package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/apperror"
	"github.com/petalworks/aisle/internal/sanitize"
	"github.com/petalworks/aisle/internal/session"
	"github.com/petalworks/aisle/internal/upstream"
)

// Handler handles HTTP requests for authentication and account state.
// Handlers are thin: they bind the request, call the session store or the
// lookup service, and render JSON. No business logic lives here.
type Handler struct {
	sessions *session.Manager
	lookup   *LookupService
}

// NewHandler creates a new account handler.
func NewHandler(sessions *session.Manager, lookup *LookupService) *Handler {
	return &Handler{sessions: sessions, lookup: lookup}
}

// Session returns the session snapshot for the SPA (GET /api/auth/session).
// It drives the one-time resolution, so the first call after a cold start
// may come back still loading; the SPA polls until the phase settles.
func (h *Handler) Session(c echo.Context) error {
	store := h.sessions.Attach(c)
	store.Resolve(c.Request().Context())
	return c.JSON(http.StatusOK, store.Snapshot())
}

// Login processes a sign-in submission (POST /api/auth/login). Backend
// rejections and transport failures both come back as success=false with a
// message; the session store guarantees the token is durably stored before
// the snapshot reports authenticated.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if msg := validateLoginRequest(&req); msg != "" {
		return apperror.NewValidation(msg)
	}

	store := h.sessions.Attach(c)
	store.Resolve(c.Request().Context())

	result := store.Login(c.Request().Context(), upstream.Credentials{
		Email:    req.Email,
		Password: req.Password,
		Role:     upstream.Role(req.Role),
	})

	snap := store.Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"success": result.Success,
		"message": result.Message,
		"user":    snap.User,
	})
}

// Register processes a sign-up submission (POST /api/auth/register).
// Success deliberately does not sign the user in; the SPA routes to the
// login form afterwards.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if msg := validateRegisterRequest(&req); msg != "" {
		return apperror.NewValidation(msg)
	}

	store := h.sessions.Attach(c)
	store.Resolve(c.Request().Context())

	result := store.Register(c.Request().Context(), upstream.Registration{
		Name:     sanitize.Text(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Phone:    sanitize.Text(req.Phone),
		Role:     upstream.Role(req.Role),
	})
	return c.JSON(http.StatusOK, result)
}

// Logout tears the session down (POST /api/auth/logout). Always succeeds
// locally, even when the marketplace is unreachable.
func (h *Handler) Logout(c echo.Context) error {
	store := h.sessions.Attach(c)
	store.Resolve(c.Request().Context())
	store.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Refresh exchanges the session's token for a fresh one (POST
// /api/auth/refresh). A failed refresh has already torn the session down by
// the time this returns, so the SPA treats a 401 here as "signed out".
func (h *Handler) Refresh(c echo.Context) error {
	store := h.sessions.Attach(c)
	store.Resolve(c.Request().Context())

	if err := store.RefreshToken(c.Request().Context()); err != nil {
		return apperror.NewUnauthorized("session expired, please sign in again")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Profile merges a partial profile edit into the session's cached user
// record (PATCH /api/auth/profile, authenticated). Purely local: pages that
// persist profile data elsewhere use this to keep the snapshot current.
func (h *Handler) Profile(c echo.Context) error {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	store := session.StoreFrom(c)
	if store == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	patch := session.UserPatch{
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	}
	if req.Name != nil {
		clean := sanitize.Text(*req.Name)
		patch.Name = &clean
	}
	if req.Phone != nil {
		clean := sanitize.Text(*req.Phone)
		patch.Phone = &clean
	}
	store.UpdateUser(patch)

	return c.JSON(http.StatusOK, store.Snapshot().User)
}

// EmailRole answers the debounced role lookup the sign-in forms fire per
// keystroke (GET /api/auth/email-role?email=...). Superseded requests get a
// 204 and the SPA ignores them.
func (h *Handler) EmailRole(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return apperror.NewValidation("email is required")
	}

	result, err := h.lookup.RoleByEmail(c.Request().Context(), email)
	if err != nil {
		if apiErr, ok := upstream.AsAPIError(err); ok {
			return apperror.NewBadRequest(apiErr.Message)
		}
		return apperror.NewUnavailable(err)
	}
	if result == nil {
		// A newer keystroke superseded this request.
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, result)
}
