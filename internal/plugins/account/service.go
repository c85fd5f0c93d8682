package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/petalworks/aisle/internal/debounce"
	"github.com/petalworks/aisle/internal/upstream"
)

// RoleLookupAPI is the slice of the marketplace client the lookup service
// needs. Narrowed to an interface so tests can stub the backend.
type RoleLookupAPI interface {
	RoleByEmail(ctx context.Context, email string) (registered bool, role upstream.Role, err error)
}

// LookupService answers "which role does this email belong to" for the
// sign-in forms. The SPA fires a request per keystroke; the service holds
// each request for a quiet window, releases superseded ones immediately,
// and drops any response that finished after a newer request took over --
// so the form can never display a role for an email the user is no longer
// typing.
type LookupService struct {
	api      RoleLookupAPI
	debounce *debounce.Keyed
}

// NewLookupService creates the lookup service with the given quiet window.
func NewLookupService(api RoleLookupAPI, window time.Duration) *LookupService {
	return &LookupService{
		api:      api,
		debounce: debounce.NewKeyed(window),
	}
}

// RoleByEmail resolves the role for an email after the debounce window.
// Returns (nil, nil) when the request was superseded by a newer keystroke;
// the caller answers those with a no-content response.
func (s *LookupService) RoleByEmail(ctx context.Context, email string) (*EmailRoleResponse, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	ticket := s.debounce.Acquire(key)
	if err := ticket.Wait(ctx); err != nil {
		if err == debounce.ErrSuperseded {
			return nil, nil
		}
		return nil, err
	}

	registered, role, err := s.api.RoleByEmail(ctx, key)

	// A newer keystroke arrived while the upstream call was in flight;
	// this result describes stale input, so it is dropped.
	if !ticket.Valid() {
		return nil, nil
	}
	ticket.Release()

	if err != nil {
		slog.Warn("email role lookup failed", slog.Any("error", err))
		return nil, err
	}
	return &EmailRoleResponse{Registered: registered, Role: role}, nil
}
