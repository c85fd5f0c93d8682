// Package account is the JSON auth surface of the gateway: login, register,
// logout, token refresh, the session snapshot the SPA polls, local profile
// merging, and the debounced email-role lookup the sign-in forms use while
// the user is typing.
package account

import (
	"strings"

	"github.com/petalworks/aisle/internal/upstream"
)

// --- Request DTOs (bound from HTTP requests) ---

// LoginRequest holds the data submitted by the login form. Role is the tab
// the user picked; the marketplace stays authoritative about the account's
// actual role.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// RegisterRequest holds the data submitted by the registration form.
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Confirm  string `json:"confirm" form:"confirm"`
	Phone    string `json:"phone" form:"phone"`
	Role     string `json:"role" form:"role"`
}

// ProfileRequest holds a partial profile edit. Absent fields stay untouched,
// which is why the fields are pointers.
type ProfileRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

// --- Response DTOs ---

// EmailRoleResponse is the debounced lookup's answer: whether the email is
// registered and, if so, which role it belongs to.
type EmailRoleResponse struct {
	Registered bool          `json:"registered"`
	Role       upstream.Role `json:"role,omitempty"`
}

// --- Validation helpers ---

// validateLoginRequest performs basic server-side validation on the login
// form. Returns an error message or empty string.
func validateLoginRequest(req *LoginRequest) string {
	if strings.TrimSpace(req.Email) == "" {
		return "email is required"
	}
	if req.Password == "" {
		return "password is required"
	}
	if req.Role != "" {
		if _, ok := upstream.ParseRole(req.Role); !ok {
			return "unknown role"
		}
	}
	return ""
}

// validateRegisterRequest performs basic server-side validation on the
// registration form. Returns an error message or empty string.
func validateRegisterRequest(req *RegisterRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if len(req.Name) > 100 {
		return "name must be at most 100 characters"
	}
	if strings.TrimSpace(req.Email) == "" {
		return "email is required"
	}
	if !strings.Contains(req.Email, "@") {
		return "email is not valid"
	}
	if req.Password == "" {
		return "password is required"
	}
	if len(req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(req.Password) > 128 {
		return "password must be at most 128 characters"
	}
	if req.Confirm != req.Password {
		return "passwords do not match"
	}
	role, ok := upstream.ParseRole(req.Role)
	if !ok {
		return "unknown role"
	}
	// Admin accounts are provisioned out of band, never self-registered.
	if role == upstream.RoleAdmin {
		return "unknown role"
	}
	return ""
}
