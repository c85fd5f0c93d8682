// Package session owns the browser-facing authentication lifecycle of the
// Aisle gateway. Each browser gets one Store: a small state machine holding
// the current identity, bearer token, loading flag, and last failure. The
// token is mirrored into durable storage (Redis) so a session survives
// gateway restarts; the user record never is -- it is always re-derived from
// the marketplace API when the session resolves.
package session

import (
	"context"
	"log/slog"

	"github.com/petalworks/aisle/internal/upstream"
)

// Phase is the session lifecycle state.
type Phase int

const (
	// PhaseResolving means the one-time startup resolution (stored token →
	// identity check) has not settled yet. Guards must not redirect in this
	// phase.
	PhaseResolving Phase = iota

	// PhaseAuthenticated means the session has a confirmed identity and token.
	PhaseAuthenticated

	// PhaseUnauthenticated means resolution settled with no valid identity.
	PhaseUnauthenticated
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseResolving:
		return "resolving"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Snapshot is a consistent read of a Store's state. Authenticated is true
// only when User is non-nil; the two flip together in every transition.
type Snapshot struct {
	Phase         Phase          `json:"phase"`
	User          *upstream.User `json:"user"`
	Authenticated bool           `json:"authenticated"`
	Loading       bool           `json:"loading"`
	Error         string         `json:"error,omitempty"`
}

// Result is the outcome of a user-initiated operation (login, register).
// Operations resolve to a Result instead of surfacing errors: structured
// backend rejections and transport failures are both recovered into
// Success=false plus a message.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// AuthAPI is the subset of the marketplace client the session machine
// depends on. Narrowed to an interface so tests can stub the backend.
type AuthAPI interface {
	Me(ctx context.Context, token string) (*upstream.User, error)
	Login(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error)
	Register(ctx context.Context, reg upstream.Registration) error
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (string, error)
}

// Notifier receives exactly one user-facing notification per user-initiated
// operation: success XOR failure, never both, never zero. The gateway's
// default implementation logs; the SPA renders the message from the JSON
// Result, so no delivery channel is needed here.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// LogNotifier is the default Notifier. It records notifications in the
// structured log so operators can trace auth activity per session.
type LogNotifier struct{}

// Success logs a success notification.
func (LogNotifier) Success(message string) {
	slog.Info("notification", slog.String("level", "success"), slog.String("message", message))
}

// Failure logs a failure notification.
func (LogNotifier) Failure(message string) {
	slog.Info("notification", slog.String("level", "error"), slog.String("message", message))
}

// UserPatch is a partial profile update merged locally into the cached user
// record. Nil fields are left untouched.
type UserPatch struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
