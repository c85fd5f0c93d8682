package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// Me returns the account the given bearer token belongs to. A stale or
// revoked token yields an *APIError with status 401.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/v1/auth/me", token, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token and the account record. Wrong
// credentials come back as an *APIError carrying the backend's message.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", nil, creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account. It deliberately returns no token: the
// account must go through Login afterwards.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/register", "", nil, reg, nil)
}

// Logout invalidates the token server-side. Callers treat this as
// best-effort: local session teardown proceeds regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", token, nil, nil, nil)
}

// refreshResult is the wire shape of the token refresh response.
type refreshResult struct {
	Token string `json:"token"`
}

// Refresh exchanges the current token for a fresh one.
func (c *Client) Refresh(ctx context.Context, token string) (string, error) {
	var result refreshResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", token, nil, nil, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

// roleLookupResult is the wire shape of the email role lookup response.
type roleLookupResult struct {
	Registered bool `json:"registered"`
	Role       Role `json:"role,omitempty"`
}

// RoleByEmail reports whether an email is registered and, if so, which role
// it belongs to. The login and register forms use this as a pre-validation
// convenience; the backend's own checks remain authoritative.
func (c *Client) RoleByEmail(ctx context.Context, email string) (registered bool, role Role, err error) {
	q := url.Values{}
	q.Set("email", email)

	var result roleLookupResult
	if err := c.do(ctx, http.MethodGet, "/v1/auth/email-role", "", q, nil, &result); err != nil {
		return false, "", err
	}
	return result.Registered, result.Role, nil
}
