package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/petalworks/aisle/internal/upstream"
)

// genericLoginFailure is shown when the backend is unreachable and supplied
// no message of its own.
const genericLoginFailure = "Something went wrong. Please try again."

// busyMessage is returned when a second submit arrives while one is already
// in flight. Overlapping submits are de-duplicated rather than raced.
const busyMessage = "A request is already in progress."

// Store is the session state machine for a single browser session.
//
// The gateway serves many browsers from one process, so unlike a
// single-threaded UI loop the store must tolerate concurrent access: every
// transition happens under the mutex, and the durable-storage token write or
// delete is performed inside the same critical section as the in-memory
// flip, so no reader ever observes the two out of sync.
type Store struct {
	api      AuthAPI
	tokens   TokenStore
	notifier Notifier
	sid      string

	resolveOnce sync.Once

	mu         sync.Mutex
	phase      Phase
	user       *upstream.User
	token      string
	loading    bool
	errMsg     string
	submitting bool
}

// NewStore creates a session store in the resolving phase. Resolve must be
// called (it is idempotent) before the phase can be trusted.
func NewStore(api AuthAPI, tokens TokenStore, notifier Notifier, sid string) *Store {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Store{
		api:      api,
		tokens:   tokens,
		notifier: notifier,
		sid:      sid,
		phase:    PhaseResolving,
		loading:  true,
	}
}

// SID returns the browser-session identifier this store belongs to.
func (s *Store) SID() string {
	return s.sid
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *upstream.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{
		Phase:         s.phase,
		User:          user,
		Authenticated: s.phase == PhaseAuthenticated && s.user != nil,
		Loading:       s.loading,
		Error:         s.errMsg,
	}
}

// Token returns the current bearer token, or "" when unauthenticated.
// Handlers use it to issue proxied calls on the session's behalf.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Resolve performs the one-time startup resolution: check durable storage
// for a token and, if one exists, confirm it against the marketplace's
// identity endpoint. Runs exactly once per store lifetime no matter how many
// requests race into it; later calls return immediately.
func (s *Store) Resolve(ctx context.Context) {
	s.resolveOnce.Do(func() {
		stored, err := s.tokens.Load(ctx, s.sid)
		if err != nil {
			slog.Warn("token load failed during resolution",
				slog.String("sid", s.sid),
				slog.Any("error", err),
			)
			s.settleUnauthenticated(ctx, false)
			return
		}
		if stored == "" {
			s.settleUnauthenticated(ctx, false)
			return
		}

		user, err := s.api.Me(ctx, stored)
		if err != nil {
			// Any failure, structured or transport, invalidates the stored
			// token: a token we cannot confirm is a token we don't keep.
			slog.Info("stored token rejected, clearing session",
				slog.String("sid", s.sid),
				slog.Any("error", err),
			)
			s.settleUnauthenticated(ctx, true)
			return
		}

		s.mu.Lock()
		s.user = user
		s.token = stored
		s.phase = PhaseAuthenticated
		s.loading = false
		s.mu.Unlock()
	})
}

// settleUnauthenticated moves the store to the unauthenticated phase,
// optionally erasing the stored token first.
func (s *Store) settleUnauthenticated(ctx context.Context, eraseToken bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if eraseToken {
		if err := s.tokens.Delete(ctx, s.sid); err != nil {
			slog.Warn("failed to erase stored token",
				slog.String("sid", s.sid),
				slog.Any("error", err),
			)
		}
	}
	s.user = nil
	s.token = ""
	s.phase = PhaseUnauthenticated
	s.loading = false
}

// beginSubmit flips the store into the loading state for a login/register
// attempt, de-duplicating overlapping submits. Returns false if another
// submit is already in flight.
func (s *Store) beginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	s.loading = true
	s.errMsg = ""
	return true
}

// failureMessage extracts the user-facing message for a failed backend
// call: the backend's own message for structured rejections, a generic
// fallback for transport errors.
func failureMessage(err error) string {
	if apiErr, ok := upstream.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericLoginFailure
}

// Login authenticates against the marketplace. On success the token is
// persisted to durable storage and the identity flips to authenticated in
// the same step. Failures of any kind are recovered into the returned
// Result -- never surfaced as an error to the caller.
func (s *Store) Login(ctx context.Context, creds upstream.Credentials) Result {
	if !s.beginSubmit() {
		s.notifier.Failure(busyMessage)
		return Result{Success: false, Message: busyMessage}
	}

	result, err := s.api.Login(ctx, creds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.loading = false

	if err != nil || result == nil || result.User == nil {
		msg := genericLoginFailure
		if err != nil {
			msg = failureMessage(err)
		}
		s.errMsg = msg
		s.notifier.Failure(msg)
		return Result{Success: false, Message: msg}
	}

	// Durable write happens before the in-memory flip; if it fails the
	// session stays unauthenticated rather than holding a token that would
	// vanish on reload.
	if err := s.tokens.Save(ctx, s.sid, result.Token); err != nil {
		slog.Error("failed to persist token",
			slog.String("sid", s.sid),
			slog.Any("error", err),
		)
		s.errMsg = genericLoginFailure
		s.notifier.Failure(genericLoginFailure)
		return Result{Success: false, Message: genericLoginFailure}
	}

	s.user = result.User
	s.token = result.Token
	s.phase = PhaseAuthenticated
	s.errMsg = ""

	slog.Info("user logged in",
		slog.String("sid", s.sid),
		slog.String("user_id", result.User.ID),
		slog.String("role", string(result.User.Role)),
	)
	s.notifier.Success("Signed in successfully.")
	return Result{Success: true}
}

// Register creates a marketplace account. Success deliberately does NOT
// authenticate: no token is stored, no identity is set, and the phase is
// untouched. The caller routes the user to the login flow afterwards.
func (s *Store) Register(ctx context.Context, reg upstream.Registration) Result {
	if !s.beginSubmit() {
		s.notifier.Failure(busyMessage)
		return Result{Success: false, Message: busyMessage}
	}

	err := s.api.Register(ctx, reg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.loading = false

	if err != nil {
		msg := failureMessage(err)
		s.errMsg = msg
		s.notifier.Failure(msg)
		return Result{Success: false, Message: msg}
	}

	s.errMsg = ""
	slog.Info("user registered", slog.String("sid", s.sid), slog.String("role", string(reg.Role)))
	s.notifier.Success("Account created. Please sign in.")
	return Result{Success: true}
}

// Logout tears the session down. The upstream invalidation is best-effort:
// its failure is logged and ignored, and the local token erase plus state
// reset happen unconditionally, so the client can never get stuck signed in
// because the marketplace was unreachable.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			slog.Warn("upstream logout failed, clearing session anyway",
				slog.String("sid", s.sid),
				slog.Any("error", err),
			)
		}
	}

	s.mu.Lock()
	if err := s.tokens.Delete(ctx, s.sid); err != nil {
		slog.Warn("failed to erase stored token",
			slog.String("sid", s.sid),
			slog.Any("error", err),
		)
	}
	s.user = nil
	s.token = ""
	s.phase = PhaseUnauthenticated
	s.errMsg = ""
	s.loading = false
	s.mu.Unlock()

	slog.Info("user logged out", slog.String("sid", s.sid))
	s.notifier.Success("Signed out.")
}

// UpdateUser merges partial profile fields into the cached user record.
// Purely local: no network call, and the token and phase are untouched.
// Pages that edit profile data elsewhere use this to keep the session's
// cached copy current.
func (s *Store) UpdateUser(patch UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	if patch.Name != nil {
		s.user.Name = *patch.Name
	}
	if patch.Email != nil {
		s.user.Email = *patch.Email
	}
	if patch.Phone != nil {
		s.user.Phone = *patch.Phone
	}
	if patch.AvatarURL != nil {
		s.user.AvatarURL = *patch.AvatarURL
	}
}

// RefreshToken exchanges the current token for a fresh one. On success only
// the token changes (persisted before the swap). Any failure -- including a
// failed durable write -- cascades into a full Logout: a session that
// cannot refresh is treated as invalid, never left half-updated.
func (s *Store) RefreshToken(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return nil
	}

	newToken, err := s.api.Refresh(ctx, token)
	if err != nil {
		slog.Info("token refresh failed, forcing logout",
			slog.String("sid", s.sid),
			slog.Any("error", err),
		)
		s.Logout(ctx)
		return err
	}

	s.mu.Lock()
	if err := s.tokens.Save(ctx, s.sid, newToken); err != nil {
		s.mu.Unlock()
		slog.Error("failed to persist refreshed token, forcing logout",
			slog.String("sid", s.sid),
			slog.Any("error", err),
		)
		s.Logout(ctx)
		return err
	}
	s.token = newToken
	s.mu.Unlock()
	return nil
}
