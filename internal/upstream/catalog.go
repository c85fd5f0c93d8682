package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// CatalogFilter narrows public browse listings. Zero values mean "no filter".
type CatalogFilter struct {
	CategoryID string
	City       string
	Search     string
	Page       int
	PerPage    int
}

// query converts the filter into wire query parameters.
func (f CatalogFilter) query() url.Values {
	q := pageQuery(f.Page, f.PerPage)
	if f.CategoryID != "" {
		q.Set("category_id", f.CategoryID)
	}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	return q
}

// CategoryList is the categories collection response.
type CategoryList struct {
	Items []Category `json:"items"`
	Meta  ListMeta   `json:"meta"`
}

// ListCategories returns the public category catalog.
func (c *Client) ListCategories(ctx context.Context, page, perPage int) (*CategoryList, error) {
	var list CategoryList
	if err := c.do(ctx, http.MethodGet, "/v1/categories", "", pageQuery(page, perPage), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// VendorList is the vendors collection response.
type VendorList struct {
	Items []Vendor `json:"items"`
	Meta  ListMeta `json:"meta"`
}

// ListVendors returns active vendors matching the filter.
func (c *Client) ListVendors(ctx context.Context, filter CatalogFilter) (*VendorList, error) {
	var list VendorList
	if err := c.do(ctx, http.MethodGet, "/v1/vendors", "", filter.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetVendor returns a single vendor's storefront profile.
func (c *Client) GetVendor(ctx context.Context, id string) (*Vendor, error) {
	var vendor Vendor
	if err := c.do(ctx, http.MethodGet, "/v1/vendors/"+id, "", nil, nil, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ServiceList is the services collection response.
type ServiceList struct {
	Items []Service `json:"items"`
	Meta  ListMeta  `json:"meta"`
}

// ListVendorServices returns a vendor's active services.
func (c *Client) ListVendorServices(ctx context.Context, vendorID string, page, perPage int) (*ServiceList, error) {
	var list ServiceList
	if err := c.do(ctx, http.MethodGet, "/v1/vendors/"+vendorID+"/services", "", pageQuery(page, perPage), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetService returns a single service.
func (c *Client) GetService(ctx context.Context, id string) (*Service, error) {
	var svc Service
	if err := c.do(ctx, http.MethodGet, "/v1/services/"+id, "", nil, nil, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// PackageList is the packages collection response.
type PackageList struct {
	Items []Package `json:"items"`
	Meta  ListMeta  `json:"meta"`
}

// ListVendorPackages returns a vendor's active packages.
func (c *Client) ListVendorPackages(ctx context.Context, vendorID string, page, perPage int) (*PackageList, error) {
	var list PackageList
	if err := c.do(ctx, http.MethodGet, "/v1/vendors/"+vendorID+"/packages", "", pageQuery(page, perPage), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPackage returns a single package.
func (c *Client) GetPackage(ctx context.Context, id string) (*Package, error) {
	var pkg Package
	if err := c.do(ctx, http.MethodGet, "/v1/packages/"+id, "", nil, nil, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// PortfolioList is the portfolio collection response.
type PortfolioList struct {
	Items []PortfolioItem `json:"items"`
	Meta  ListMeta        `json:"meta"`
}

// ListVendorPortfolio returns a vendor's public gallery.
func (c *Client) ListVendorPortfolio(ctx context.Context, vendorID string, page, perPage int) (*PortfolioList, error) {
	var list PortfolioList
	if err := c.do(ctx, http.MethodGet, "/v1/vendors/"+vendorID+"/portfolio", "", pageQuery(page, perPage), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AvailabilityList is the availability collection response.
type AvailabilityList struct {
	Items []AvailabilitySlot `json:"items"`
}

// ListVendorAvailability returns a vendor's open booking dates within the
// given month (formatted "2006-01").
func (c *Client) ListVendorAvailability(ctx context.Context, vendorID, month string) (*AvailabilityList, error) {
	q := url.Values{}
	if month != "" {
		q.Set("month", month)
	}
	var list AvailabilityList
	if err := c.do(ctx, http.MethodGet, "/v1/vendors/"+vendorID+"/availability", "", q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
