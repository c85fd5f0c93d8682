package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/upstream"
)

// testManager builds a manager whose identity check resolves the given user
// for any stored token.
func testManager(t *testing.T, user *upstream.User) (*Manager, *memTokenStore) {
	t.Helper()
	api := &fakeAuthAPI{
		meFn: func(ctx context.Context, token string) (*upstream.User, error) {
			if user == nil {
				return nil, &upstream.APIError{Status: 401, Message: "invalid token"}
			}
			return user, nil
		},
	}
	tokens := newMemTokenStore()
	return NewManager(api, tokens, &countingNotifier{}, time.Hour), tokens
}

// request runs a handler behind the given middleware chain and returns the
// response recorder.
func request(t *testing.T, target string, sid string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "subtree")
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRequireAuth_RedirectsAnonymousBrowser(t *testing.T) {
	m, _ := testManager(t, nil)

	rec := request(t, "/vendor/services?page=2", "", RequireAuth(m))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/login?next=%2Fvendor%2Fservices%3Fpage%3D2" {
		t.Errorf("redirect = %q, want login with the original path preserved", loc)
	}
}

func TestRequireAuth_JSON401ForAPIPaths(t *testing.T) {
	m, _ := testManager(t, nil)

	rec := request(t, "/api/vendor/services", "", RequireAuth(m))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if rec.Header().Get("Location") != "" {
		t.Error("API paths must not be redirected")
	}
}

func TestRequireAuth_PassesAuthenticatedSession(t *testing.T) {
	user := &upstream.User{ID: "7", Role: upstream.RoleVendor, Active: true}
	m, tokens := testManager(t, user)
	tokens.Save(context.Background(), testSID, "stored")

	rec := request(t, "/vendor/services", testSID, RequireAuth(m))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "subtree" {
		t.Errorf("body = %q, want the wrapped subtree", rec.Body.String())
	}
}

func TestRequireAuth_NeverRedirectsWhileLoading(t *testing.T) {
	user := &upstream.User{ID: "7", Role: upstream.RoleCustomer, Active: true}
	m, tokens := testManager(t, user)
	tokens.Save(context.Background(), testSID, "stored")

	// Park the store mid-submit so its snapshot reports loading.
	release := make(chan struct{})
	store := m.store(testSID)
	store.Resolve(context.Background())
	store.api.(*fakeAuthAPI).loginFn = func(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error) {
		<-release
		return nil, &upstream.APIError{Status: 401, Message: "nope"}
	}
	go store.Login(context.Background(), upstream.Credentials{Email: "a@b.com", Password: "x"})
	for !store.Snapshot().Loading {
	}
	defer close(release)

	rec := request(t, "/account", testSID, RequireAuth(m))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 while loading", rec.Code)
	}
	if rec.Header().Get("Location") != "" {
		t.Error("loading sessions must never be redirected")
	}
}

func TestRequireRole_RedirectsMismatchedRole(t *testing.T) {
	user := &upstream.User{ID: "1", Role: upstream.RoleCustomer, Active: true}
	m, tokens := testManager(t, user)
	tokens.Save(context.Background(), testSID, "stored")

	rec := request(t, "/vendor/services", testSID,
		RequireAuth(m),
		RequireRole(upstream.RoleVendor),
	)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want the safe default route", loc)
	}
}

func TestRequireRole_JSON403ForAPIPaths(t *testing.T) {
	user := &upstream.User{ID: "1", Role: upstream.RoleCustomer, Active: true}
	m, tokens := testManager(t, user)
	tokens.Save(context.Background(), testSID, "stored")

	rec := request(t, "/api/admin/users", testSID,
		RequireAuth(m),
		RequireRole(upstream.RoleAdmin),
	)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRole_AllowsPermittedRole(t *testing.T) {
	user := &upstream.User{ID: "9", Role: upstream.RoleAdmin, Active: true}
	m, tokens := testManager(t, user)
	tokens.Save(context.Background(), testSID, "stored")

	rec := request(t, "/admin/users", testSID,
		RequireAuth(m),
		RequireRole(upstream.RoleAdmin),
	)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestManager_ReusesStorePerSession(t *testing.T) {
	m, _ := testManager(t, nil)

	a := m.store("sid-a")
	b := m.store("sid-b")
	if a == b {
		t.Fatal("distinct sessions must get distinct stores")
	}
	if m.store("sid-a") != a {
		t.Error("same session must get the same store back")
	}
}
