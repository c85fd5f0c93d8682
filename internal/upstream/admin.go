package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// Administrative operations. All of these require a token belonging to an
// admin account; the backend enforces that regardless of the gateway's own
// role gating.

// AdminFilter narrows admin listings. Zero values mean "no filter".
type AdminFilter struct {
	Search  string
	Status  string
	Role    Role
	Page    int
	PerPage int
}

// query converts the filter into wire query parameters.
func (f AdminFilter) query() url.Values {
	q := pageQuery(f.Page, f.PerPage)
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Role != "" {
		q.Set("role", string(f.Role))
	}
	return q
}

// UserList is the admin users collection response.
type UserList struct {
	Items []User   `json:"items"`
	Meta  ListMeta `json:"meta"`
}

// AdminListUsers returns all marketplace accounts matching the filter.
func (c *Client) AdminListUsers(ctx context.Context, token string, filter AdminFilter) (*UserList, error) {
	var list UserList
	if err := c.do(ctx, http.MethodGet, "/v1/admin/users", token, filter.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AdminSetUserActive activates or deactivates an account.
func (c *Client) AdminSetUserActive(ctx context.Context, token, userID string, active bool) (*User, error) {
	payload := map[string]bool{"active": active}
	var user User
	if err := c.do(ctx, http.MethodPatch, "/v1/admin/users/"+userID, token, nil, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminDeleteUser removes an account.
func (c *Client) AdminDeleteUser(ctx context.Context, token, userID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/users/"+userID, token, nil, nil, nil)
}

// AdminListVendors returns all vendor profiles matching the filter,
// including unverified and deactivated ones.
func (c *Client) AdminListVendors(ctx context.Context, token string, filter AdminFilter) (*VendorList, error) {
	var list VendorList
	if err := c.do(ctx, http.MethodGet, "/v1/admin/vendors", token, filter.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AdminSetVendorVerified marks a vendor verified or rejects its application.
func (c *Client) AdminSetVendorVerified(ctx context.Context, token, vendorID string, verified bool) (*Vendor, error) {
	payload := map[string]bool{"verified": verified}
	var vendor Vendor
	if err := c.do(ctx, http.MethodPatch, "/v1/admin/vendors/"+vendorID+"/verify", token, nil, payload, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// AdminSetVendorActive activates or deactivates a vendor storefront.
func (c *Client) AdminSetVendorActive(ctx context.Context, token, vendorID string, active bool) (*Vendor, error) {
	payload := map[string]bool{"active": active}
	var vendor Vendor
	if err := c.do(ctx, http.MethodPatch, "/v1/admin/vendors/"+vendorID, token, nil, payload, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// AdminListOrders returns all orders matching the filter.
func (c *Client) AdminListOrders(ctx context.Context, token string, filter AdminFilter) (*OrderList, error) {
	var list OrderList
	if err := c.do(ctx, http.MethodGet, "/v1/admin/orders", token, filter.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// AdminCreateCategory adds a category to the catalog.
func (c *Client) AdminCreateCategory(ctx context.Context, token string, input CategoryInput) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPost, "/v1/admin/categories", token, nil, input, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// AdminUpdateCategory updates a category.
func (c *Client) AdminUpdateCategory(ctx context.Context, token, id string, input CategoryInput) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPut, "/v1/admin/categories/"+id, token, nil, input, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// AdminDeleteCategory removes a category. The backend rejects deletion of
// categories that still have vendors attached.
func (c *Client) AdminDeleteCategory(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/categories/"+id, token, nil, nil, nil)
}

// AdminGetSettings returns the platform configuration.
func (c *Client) AdminGetSettings(ctx context.Context, token string) (*Settings, error) {
	var settings Settings
	if err := c.do(ctx, http.MethodGet, "/v1/admin/settings", token, nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// AdminUpdateSettings replaces the platform configuration.
func (c *Client) AdminUpdateSettings(ctx context.Context, token string, settings Settings) (*Settings, error) {
	var updated Settings
	if err := c.do(ctx, http.MethodPut, "/v1/admin/settings", token, nil, settings, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
