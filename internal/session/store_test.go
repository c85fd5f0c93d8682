package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/petalworks/aisle/internal/upstream"
)

// --- Fakes ---

// fakeAuthAPI implements AuthAPI with overridable functions.
type fakeAuthAPI struct {
	meFn       func(ctx context.Context, token string) (*upstream.User, error)
	loginFn    func(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error)
	registerFn func(ctx context.Context, reg upstream.Registration) error
	logoutFn   func(ctx context.Context, token string) error
	refreshFn  func(ctx context.Context, token string) (string, error)
}

func (f *fakeAuthAPI) Me(ctx context.Context, token string) (*upstream.User, error) {
	if f.meFn != nil {
		return f.meFn(ctx, token)
	}
	return nil, errors.New("no identity")
}

func (f *fakeAuthAPI) Login(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, creds)
	}
	return nil, errors.New("login not stubbed")
}

func (f *fakeAuthAPI) Register(ctx context.Context, reg upstream.Registration) error {
	if f.registerFn != nil {
		return f.registerFn(ctx, reg)
	}
	return nil
}

func (f *fakeAuthAPI) Logout(ctx context.Context, token string) error {
	if f.logoutFn != nil {
		return f.logoutFn(ctx, token)
	}
	return nil
}

func (f *fakeAuthAPI) Refresh(ctx context.Context, token string) (string, error) {
	if f.refreshFn != nil {
		return f.refreshFn(ctx, token)
	}
	return "", errors.New("refresh not stubbed")
}

// memTokenStore is an in-memory TokenStore for tests.
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]string)}
}

func (m *memTokenStore) Save(ctx context.Context, sid, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[sid] = token
	return nil
}

func (m *memTokenStore) Load(ctx context.Context, sid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[sid], nil
}

func (m *memTokenStore) Delete(ctx context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, sid)
	return nil
}

// countingNotifier records notifications for the one-per-action contract.
type countingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *countingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *countingNotifier) Failure(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, message)
}

func (n *countingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.failures)
}

// --- Helpers ---

const testSID = "11111111-2222-3333-4444-555555555555"

func assertSnapshot(t *testing.T, snap Snapshot, wantAuth bool, wantErr string) {
	t.Helper()
	if snap.Authenticated != wantAuth {
		t.Errorf("authenticated = %v, want %v", snap.Authenticated, wantAuth)
	}
	if snap.Loading {
		t.Error("expected loading to be settled")
	}
	if snap.Error != wantErr {
		t.Errorf("error = %q, want %q", snap.Error, wantErr)
	}
	if snap.Authenticated && snap.User == nil {
		t.Error("authenticated snapshot must carry a user")
	}
	if !wantAuth && snap.User != nil {
		t.Error("unauthenticated snapshot must not carry a user")
	}
}

func customerUser() *upstream.User {
	return &upstream.User{ID: "1", Name: "Ada", Email: "a@b.com", Role: upstream.RoleCustomer, Active: true}
}

// --- Startup resolution ---

func TestResolve_NoStoredToken(t *testing.T) {
	tokens := newMemTokenStore()
	store := NewStore(&fakeAuthAPI{}, tokens, &countingNotifier{}, testSID)

	store.Resolve(context.Background())

	snap := store.Snapshot()
	assertSnapshot(t, snap, false, "")
	if snap.Phase != PhaseUnauthenticated {
		t.Errorf("phase = %v, want unauthenticated", snap.Phase)
	}
}

func TestResolve_ValidStoredToken(t *testing.T) {
	tokens := newMemTokenStore()
	tokens.Save(context.Background(), testSID, "stored-token")

	api := &fakeAuthAPI{
		meFn: func(ctx context.Context, token string) (*upstream.User, error) {
			if token != "stored-token" {
				t.Errorf("identity check used token %q", token)
			}
			return customerUser(), nil
		},
	}
	store := NewStore(api, tokens, &countingNotifier{}, testSID)

	store.Resolve(context.Background())

	snap := store.Snapshot()
	assertSnapshot(t, snap, true, "")
	if snap.User.ID != "1" {
		t.Errorf("user = %+v, want backend-returned record", snap.User)
	}
	if store.Token() != "stored-token" {
		t.Errorf("token = %q, want the stored one", store.Token())
	}
}

func TestResolve_InvalidStoredTokenErasesIt(t *testing.T) {
	tokens := newMemTokenStore()
	tokens.Save(context.Background(), testSID, "stale-token")

	api := &fakeAuthAPI{
		meFn: func(ctx context.Context, token string) (*upstream.User, error) {
			return nil, &upstream.APIError{Status: 401, Message: "token expired"}
		},
	}
	store := NewStore(api, tokens, &countingNotifier{}, testSID)

	store.Resolve(context.Background())

	assertSnapshot(t, store.Snapshot(), false, "")
	if stored, _ := tokens.Load(context.Background(), testSID); stored != "" {
		t.Errorf("stored token = %q, want erased", stored)
	}
}

func TestResolve_RunsExactlyOnce(t *testing.T) {
	calls := 0
	tokens := newMemTokenStore()
	tokens.Save(context.Background(), testSID, "stored-token")

	api := &fakeAuthAPI{
		meFn: func(ctx context.Context, token string) (*upstream.User, error) {
			calls++
			return customerUser(), nil
		},
	}
	store := NewStore(api, tokens, &countingNotifier{}, testSID)

	for range 5 {
		store.Resolve(context.Background())
	}
	if calls != 1 {
		t.Errorf("identity check ran %d times, want exactly 1", calls)
	}
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	tokens := newMemTokenStore()
	notifier := &countingNotifier{}
	api := &fakeAuthAPI{
		loginFn: func(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error) {
			return &upstream.LoginResult{Token: "T", User: customerUser()}, nil
		},
	}
	store := NewStore(api, tokens, notifier, testSID)
	store.Resolve(context.Background())

	result := store.Login(context.Background(), upstream.Credentials{
		Email: "a@b.com", Password: "x", Role: upstream.RoleCustomer,
	})

	if !result.Success {
		t.Fatalf("login failed: %s", result.Message)
	}
	assertSnapshot(t, store.Snapshot(), true, "")
	if store.Token() != "T" {
		t.Errorf("token = %q, want T", store.Token())
	}
	if stored, _ := tokens.Load(context.Background(), testSID); stored != "T" {
		t.Errorf("durable storage = %q, want T", stored)
	}
	if s, f := notifier.counts(); s != 1 || f != 0 {
		t.Errorf("notifications = %d success / %d failure, want exactly 1/0", s, f)
	}
}

func TestLogin_StructuredFailureIsRecoverable(t *testing.T) {
	notifier := &countingNotifier{}
	api := &fakeAuthAPI{
		loginFn: func(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error) {
			return nil, &upstream.APIError{Status: 401, Message: "Invalid credentials"}
		},
	}
	store := NewStore(api, newMemTokenStore(), notifier, testSID)
	store.Resolve(context.Background())

	result := store.Login(context.Background(), upstream.Credentials{Email: "a@b.com", Password: "bad"})

	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Message != "Invalid credentials" {
		t.Errorf("message = %q, want the backend's message", result.Message)
	}
	assertSnapshot(t, store.Snapshot(), false, "Invalid credentials")
	if s, f := notifier.counts(); s != 0 || f != 1 {
		t.Errorf("notifications = %d success / %d failure, want exactly 0/1", s, f)
	}
}

func TestLogin_TransportFailureGetsGenericMessage(t *testing.T) {
	api := &fakeAuthAPI{
		loginFn: func(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	store := NewStore(api, newMemTokenStore(), &countingNotifier{}, testSID)
	store.Resolve(context.Background())

	result := store.Login(context.Background(), upstream.Credentials{Email: "a@b.com", Password: "x"})

	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Message != genericLoginFailure {
		t.Errorf("message = %q, want the generic fallback", result.Message)
	}
	assertSnapshot(t, store.Snapshot(), false, genericLoginFailure)
}

func TestLogin_ClearsPreviousError(t *testing.T) {
	failing := true
	api := &fakeAuthAPI{
		loginFn: func(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error) {
			if failing {
				return nil, &upstream.APIError{Status: 401, Message: "Invalid credentials"}
			}
			return &upstream.LoginResult{Token: "T", User: customerUser()}, nil
		},
	}
	store := NewStore(api, newMemTokenStore(), &countingNotifier{}, testSID)
	store.Resolve(context.Background())

	store.Login(context.Background(), upstream.Credentials{Email: "a@b.com", Password: "bad"})
	failing = false
	result := store.Login(context.Background(), upstream.Credentials{Email: "a@b.com", Password: "x"})

	if !result.Success {
		t.Fatalf("second login failed: %s", result.Message)
	}
	assertSnapshot(t, store.Snapshot(), true, "")
}

func TestLogin_DoubleSubmitIsDeduplicated(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAuthAPI{
		loginFn: func(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error) {
			<-release
			return &upstream.LoginResult{Token: "T", User: customerUser()}, nil
		},
	}
	store := NewStore(api, newMemTokenStore(), &countingNotifier{}, testSID)
	store.Resolve(context.Background())

	first := make(chan Result)
	go func() {
		first <- store.Login(context.Background(), upstream.Credentials{Email: "a@b.com", Password: "x"})
	}()

	// Wait until the first submit is in flight.
	for {
		if store.Snapshot().Loading {
			break
		}
	}

	second := store.Login(context.Background(), upstream.Credentials{Email: "a@b.com", Password: "x"})
	if second.Success {
		t.Error("overlapping submit should be rejected, not raced")
	}

	close(release)
	if result := <-first; !result.Success {
		t.Errorf("first submit should still win: %s", result.Message)
	}
	assertSnapshot(t, store.Snapshot(), true, "")
}

// --- Register ---

func TestRegister_SuccessDoesNotAuthenticate(t *testing.T) {
	tokens := newMemTokenStore()
	notifier := &countingNotifier{}
	store := NewStore(&fakeAuthAPI{}, tokens, notifier, testSID)
	store.Resolve(context.Background())

	result := store.Register(context.Background(), upstream.Registration{
		Name: "Ada", Email: "a@b.com", Password: "password1", Role: upstream.RoleCustomer,
	})

	if !result.Success {
		t.Fatalf("register failed: %s", result.Message)
	}
	assertSnapshot(t, store.Snapshot(), false, "")
	if store.Token() != "" {
		t.Error("register must not store a token")
	}
	if stored, _ := tokens.Load(context.Background(), testSID); stored != "" {
		t.Error("register must not persist a token")
	}
	if s, f := notifier.counts(); s != 1 || f != 0 {
		t.Errorf("notifications = %d success / %d failure, want exactly 1/0", s, f)
	}
}

func TestRegister_FailureCarriesBackendMessage(t *testing.T) {
	api := &fakeAuthAPI{
		registerFn: func(ctx context.Context, reg upstream.Registration) error {
			return &upstream.APIError{Status: 409, Message: "email already registered"}
		},
	}
	store := NewStore(api, newMemTokenStore(), &countingNotifier{}, testSID)
	store.Resolve(context.Background())

	result := store.Register(context.Background(), upstream.Registration{Email: "a@b.com"})
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Message != "email already registered" {
		t.Errorf("message = %q", result.Message)
	}
}

// --- Logout ---

// authenticatedStore builds a store in the authenticated state.
func authenticatedStore(t *testing.T, api *fakeAuthAPI, tokens TokenStore, notifier Notifier) *Store {
	t.Helper()
	if api.loginFn == nil {
		api.loginFn = func(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error) {
			return &upstream.LoginResult{Token: "T", User: customerUser()}, nil
		}
	}
	store := NewStore(api, tokens, notifier, testSID)
	store.Resolve(context.Background())
	if result := store.Login(context.Background(), upstream.Credentials{Email: "a@b.com", Password: "x"}); !result.Success {
		t.Fatalf("setup login failed: %s", result.Message)
	}
	return store
}

func TestLogout_UnconditionalEvenWhenUpstreamFails(t *testing.T) {
	tokens := newMemTokenStore()
	api := &fakeAuthAPI{
		logoutFn: func(ctx context.Context, token string) error {
			return errors.New("server unreachable")
		},
	}
	store := authenticatedStore(t, api, tokens, &countingNotifier{})

	store.Logout(context.Background())

	assertSnapshot(t, store.Snapshot(), false, "")
	if store.Token() != "" {
		t.Error("token must be cleared")
	}
	if stored, _ := tokens.Load(context.Background(), testSID); stored != "" {
		t.Error("durable storage must be cleared")
	}
}

func TestLogout_CallsUpstreamWithToken(t *testing.T) {
	var usedToken string
	api := &fakeAuthAPI{
		logoutFn: func(ctx context.Context, token string) error {
			usedToken = token
			return nil
		},
	}
	store := authenticatedStore(t, api, newMemTokenStore(), &countingNotifier{})

	store.Logout(context.Background())
	if usedToken != "T" {
		t.Errorf("upstream logout used token %q, want T", usedToken)
	}
}

// --- UpdateUser ---

func TestUpdateUser_LocalMergeOnly(t *testing.T) {
	store := authenticatedStore(t, &fakeAuthAPI{}, newMemTokenStore(), &countingNotifier{})

	name := "Ada Lovelace"
	phone := "+351 000 000"
	store.UpdateUser(UserPatch{Name: &name, Phone: &phone})

	snap := store.Snapshot()
	if snap.User.Name != "Ada Lovelace" || snap.User.Phone != "+351 000 000" {
		t.Errorf("user = %+v, want merged fields", snap.User)
	}
	if snap.User.Email != "a@b.com" {
		t.Error("unpatched fields must be untouched")
	}
	if !snap.Authenticated || store.Token() != "T" {
		t.Error("UpdateUser must not touch token or authentication")
	}
}

func TestUpdateUser_NoopWhenUnauthenticated(t *testing.T) {
	store := NewStore(&fakeAuthAPI{}, newMemTokenStore(), &countingNotifier{}, testSID)
	store.Resolve(context.Background())

	name := "Ghost"
	store.UpdateUser(UserPatch{Name: &name})
	if store.Snapshot().User != nil {
		t.Error("unauthenticated store must stay user-less")
	}
}

// --- RefreshToken ---

func TestRefreshToken_SwapsOnlyTheToken(t *testing.T) {
	tokens := newMemTokenStore()
	api := &fakeAuthAPI{
		refreshFn: func(ctx context.Context, token string) (string, error) {
			if token != "T" {
				t.Errorf("refresh used token %q, want T", token)
			}
			return "T2", nil
		},
	}
	store := authenticatedStore(t, api, tokens, &countingNotifier{})

	if err := store.RefreshToken(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if store.Token() != "T2" {
		t.Errorf("token = %q, want T2", store.Token())
	}
	if stored, _ := tokens.Load(context.Background(), testSID); stored != "T2" {
		t.Errorf("durable storage = %q, want T2", stored)
	}
	assertSnapshot(t, store.Snapshot(), true, "")
}

func TestRefreshToken_FailureCascadesToLogout(t *testing.T) {
	tokens := newMemTokenStore()
	api := &fakeAuthAPI{
		refreshFn: func(ctx context.Context, token string) (string, error) {
			return "", &upstream.APIError{Status: 401, Message: "refresh token expired"}
		},
	}
	store := authenticatedStore(t, api, tokens, &countingNotifier{})

	if err := store.RefreshToken(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	assertSnapshot(t, store.Snapshot(), false, "")
	if store.Token() != "" {
		t.Error("token must be cleared after forced logout")
	}
	if stored, _ := tokens.Load(context.Background(), testSID); stored != "" {
		t.Error("durable storage must be cleared after forced logout")
	}
}

func TestRefreshToken_NoopWithoutToken(t *testing.T) {
	store := NewStore(&fakeAuthAPI{}, newMemTokenStore(), &countingNotifier{}, testSID)
	store.Resolve(context.Background())

	if err := store.RefreshToken(context.Background()); err != nil {
		t.Errorf("refresh without a token should be a no-op, got %v", err)
	}
}
