package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 2*time.Second)
}

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Empty(t, r.Header.Get("Authorization"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@b.com", creds.Email)
		assert.Equal(t, RoleCustomer, creds.Role)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token":"T","user":{"id":"1","name":"Ada","email":"a@b.com","role":"customer","active":true}}`)
	})

	result, err := client.Login(context.Background(), Credentials{
		Email:    "a@b.com",
		Password: "x",
		Role:     RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, "T", result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, RoleCustomer, result.User.Role)
}

func TestLogin_StructuredRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Invalid credentials","type":"unauthorized"}}`)
	})

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.com", Password: "wrong", Role: RoleCustomer})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok, "expected a structured APIError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestLogin_UnstructuredFailureIsNotAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream proxy error")
	})

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.com", Password: "x", Role: RoleCustomer})
	require.Error(t, err)

	_, ok := AsAPIError(err)
	assert.False(t, ok, "plain-body failures must not be typed as structured rejections")
}

func TestMe_SendsBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/me", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"7","name":"Vera","email":"v@b.com","role":"vendor","active":true}`)
	})

	user, err := client.Me(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "7", user.ID)
	assert.Equal(t, RoleVendor, user.Role)
}

func TestRegister_NoTokenReturned(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	})

	err := client.Register(context.Background(), Registration{
		Name:     "Ada",
		Email:    "a@b.com",
		Password: "password1",
		Role:     RoleCustomer,
	})
	require.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/refresh", r.URL.Path)
		require.Equal(t, "Bearer old", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token":"new"}`)
	})

	token, err := client.Refresh(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, "new", token)
}

func TestRoleByEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/email-role", r.URL.Path)
		require.Equal(t, "taken@b.com", r.URL.Query().Get("email"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"registered":true,"role":"vendor"}`)
	})

	registered, role, err := client.RoleByEmail(context.Background(), "taken@b.com")
	require.NoError(t, err)
	assert.True(t, registered)
	assert.Equal(t, RoleVendor, role)
}

func TestListVendors_FilterQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "cat-1", q.Get("category_id"))
		assert.Equal(t, "Lisbon", q.Get("city"))
		assert.Equal(t, "2", q.Get("page"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"id":"v1","business_name":"Petal & Co","category_id":"cat-1","verified":true,"active":true}],"meta":{"page":2,"per_page":20,"total":41}}`)
	})

	list, err := client.ListVendors(context.Background(), CatalogFilter{
		CategoryID: "cat-1",
		City:       "Lisbon",
		Page:       2,
		PerPage:    20,
	})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Petal & Co", list.Items[0].BusinessName)
	assert.Equal(t, 41, list.Meta.Total)
}

func TestAdminSetUserActive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/admin/users/u9", r.URL.Path)
		require.Equal(t, http.MethodPatch, r.Method)

		var payload map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.False(t, payload["active"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"u9","name":"Bo","email":"bo@b.com","role":"customer","active":false}`)
	})

	user, err := client.AdminSetUserActive(context.Background(), "admintok", "u9", false)
	require.NoError(t, err)
	assert.False(t, user.Active)
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"customer", "vendor", "admin"} {
		role, ok := ParseRole(valid)
		assert.True(t, ok, valid)
		assert.True(t, role.Valid())
	}

	_, ok := ParseRole("superuser")
	assert.False(t, ok)
	assert.False(t, Role("").Valid())
}
