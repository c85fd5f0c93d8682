package upstream

import (
	"context"
	"net/http"
)

// Vendor-owned resource operations. Every call here acts on the
// authenticated vendor's own resources; the backend scopes them by the
// bearer token, so no vendor ID appears in the paths.

// ServiceInput is the create/update payload for a service.
type ServiceInput struct {
	CategoryID  string  `json:"category_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
}

// ListOwnServices returns the authenticated vendor's services, active or not.
func (c *Client) ListOwnServices(ctx context.Context, token string, page, perPage int) (*ServiceList, error) {
	var list ServiceList
	if err := c.do(ctx, http.MethodGet, "/v1/vendor/services", token, pageQuery(page, perPage), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateService creates a service for the authenticated vendor.
func (c *Client) CreateService(ctx context.Context, token string, input ServiceInput) (*Service, error) {
	var svc Service
	if err := c.do(ctx, http.MethodPost, "/v1/vendor/services", token, nil, input, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// UpdateService updates one of the authenticated vendor's services.
func (c *Client) UpdateService(ctx context.Context, token, id string, input ServiceInput) (*Service, error) {
	var svc Service
	if err := c.do(ctx, http.MethodPut, "/v1/vendor/services/"+id, token, nil, input, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// DeleteService removes one of the authenticated vendor's services.
func (c *Client) DeleteService(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/vendor/services/"+id, token, nil, nil, nil)
}

// PackageInput is the create/update payload for a package.
type PackageInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ServiceIDs  []string `json:"service_ids"`
	Price       float64  `json:"price"`
	Active      bool     `json:"active"`
}

// ListOwnPackages returns the authenticated vendor's packages.
func (c *Client) ListOwnPackages(ctx context.Context, token string, page, perPage int) (*PackageList, error) {
	var list PackageList
	if err := c.do(ctx, http.MethodGet, "/v1/vendor/packages", token, pageQuery(page, perPage), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreatePackage creates a package for the authenticated vendor.
func (c *Client) CreatePackage(ctx context.Context, token string, input PackageInput) (*Package, error) {
	var pkg Package
	if err := c.do(ctx, http.MethodPost, "/v1/vendor/packages", token, nil, input, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// UpdatePackage updates one of the authenticated vendor's packages.
func (c *Client) UpdatePackage(ctx context.Context, token, id string, input PackageInput) (*Package, error) {
	var pkg Package
	if err := c.do(ctx, http.MethodPut, "/v1/vendor/packages/"+id, token, nil, input, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// DeletePackage removes one of the authenticated vendor's packages.
func (c *Client) DeletePackage(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/vendor/packages/"+id, token, nil, nil, nil)
}

// PortfolioInput is the create/update payload for a portfolio item.
type PortfolioInput struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption,omitempty"`
}

// ListOwnPortfolio returns the authenticated vendor's gallery.
func (c *Client) ListOwnPortfolio(ctx context.Context, token string, page, perPage int) (*PortfolioList, error) {
	var list PortfolioList
	if err := c.do(ctx, http.MethodGet, "/v1/vendor/portfolio", token, pageQuery(page, perPage), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreatePortfolioItem adds a work sample to the authenticated vendor's gallery.
func (c *Client) CreatePortfolioItem(ctx context.Context, token string, input PortfolioInput) (*PortfolioItem, error) {
	var item PortfolioItem
	if err := c.do(ctx, http.MethodPost, "/v1/vendor/portfolio", token, nil, input, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeletePortfolioItem removes a work sample from the gallery.
func (c *Client) DeletePortfolioItem(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/vendor/portfolio/"+id, token, nil, nil, nil)
}

// AvailabilityInput is the create/update payload for an availability slot.
type AvailabilityInput struct {
	Date string `json:"date"` // "2006-01-02"
	Open bool   `json:"open"`
	Note string `json:"note,omitempty"`
}

// ListOwnAvailability returns the authenticated vendor's availability for a
// month ("2006-01").
func (c *Client) ListOwnAvailability(ctx context.Context, token, month string) (*AvailabilityList, error) {
	q := pageQuery(0, 0)
	if month != "" {
		q.Set("month", month)
	}
	var list AvailabilityList
	if err := c.do(ctx, http.MethodGet, "/v1/vendor/availability", token, q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SetAvailability creates or updates an availability slot.
func (c *Client) SetAvailability(ctx context.Context, token string, input AvailabilityInput) (*AvailabilitySlot, error) {
	var slot AvailabilitySlot
	if err := c.do(ctx, http.MethodPut, "/v1/vendor/availability", token, nil, input, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// DeleteAvailability removes an availability slot.
func (c *Client) DeleteAvailability(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/vendor/availability/"+id, token, nil, nil, nil)
}
