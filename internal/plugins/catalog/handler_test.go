package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petalworks/aisle/internal/apperror"
	"github.com/petalworks/aisle/internal/upstream"
)

// fakeCatalogAPI stubs the marketplace read client with function fields.
type fakeCatalogAPI struct {
	listCategories func(ctx context.Context, page, perPage int) (*upstream.CategoryList, error)
	listVendors    func(ctx context.Context, filter upstream.CatalogFilter) (*upstream.VendorList, error)
	getVendor      func(ctx context.Context, id string) (*upstream.Vendor, error)
}

func (f *fakeCatalogAPI) ListCategories(ctx context.Context, page, perPage int) (*upstream.CategoryList, error) {
	return f.listCategories(ctx, page, perPage)
}

func (f *fakeCatalogAPI) ListVendors(ctx context.Context, filter upstream.CatalogFilter) (*upstream.VendorList, error) {
	return f.listVendors(ctx, filter)
}

func (f *fakeCatalogAPI) GetVendor(ctx context.Context, id string) (*upstream.Vendor, error) {
	return f.getVendor(ctx, id)
}

func (f *fakeCatalogAPI) ListVendorServices(ctx context.Context, vendorID string, page, perPage int) (*upstream.ServiceList, error) {
	return &upstream.ServiceList{}, nil
}

func (f *fakeCatalogAPI) GetService(ctx context.Context, id string) (*upstream.Service, error) {
	return &upstream.Service{ID: id}, nil
}

func (f *fakeCatalogAPI) ListVendorPackages(ctx context.Context, vendorID string, page, perPage int) (*upstream.PackageList, error) {
	return &upstream.PackageList{}, nil
}

func (f *fakeCatalogAPI) GetPackage(ctx context.Context, id string) (*upstream.Package, error) {
	return &upstream.Package{ID: id}, nil
}

func (f *fakeCatalogAPI) ListVendorPortfolio(ctx context.Context, vendorID string, page, perPage int) (*upstream.PortfolioList, error) {
	return &upstream.PortfolioList{}, nil
}

func (f *fakeCatalogAPI) ListVendorAvailability(ctx context.Context, vendorID, month string) (*upstream.AvailabilityList, error) {
	return &upstream.AvailabilityList{}, nil
}

func newContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestVendorsPassesFiltersThrough(t *testing.T) {
	var got upstream.CatalogFilter
	api := &fakeCatalogAPI{
		listVendors: func(ctx context.Context, filter upstream.CatalogFilter) (*upstream.VendorList, error) {
			got = filter
			return &upstream.VendorList{
				Items: []upstream.Vendor{{ID: "v1", BusinessName: "Dearly Beloved Films"}},
				Meta:  upstream.ListMeta{Page: 2, PerPage: 10, Total: 11},
			}, nil
		},
	}
	h := NewHandler(api)

	c, rec := newContext(t, "/api/vendors?category_id=photo&city=Austin&q=film&page=2&per_page=10")
	require.NoError(t, h.Vendors(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, upstream.CatalogFilter{
		CategoryID: "photo",
		City:       "Austin",
		Search:     "film",
		Page:       2,
		PerPage:    10,
	}, got)

	var list upstream.VendorList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Dearly Beloved Films", list.Items[0].BusinessName)
}

func TestCategoriesAppliesPaginationDefaults(t *testing.T) {
	api := &fakeCatalogAPI{
		listCategories: func(ctx context.Context, page, perPage int) (*upstream.CategoryList, error) {
			assert.Equal(t, 1, page)
			assert.Equal(t, 20, perPage)
			return &upstream.CategoryList{}, nil
		},
	}
	h := NewHandler(api)

	c, rec := newContext(t, "/api/categories")
	require.NoError(t, h.Categories(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVendorBackendFailureSurfacesNoFallbackData(t *testing.T) {
	api := &fakeCatalogAPI{
		getVendor: func(ctx context.Context, id string) (*upstream.Vendor, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	h := NewHandler(api)

	c, rec := newContext(t, "/api/vendors/v1")
	c.SetParamNames("id")
	c.SetParamValues("v1")

	err := h.Vendor(c)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	// Nothing was written: no placeholder vendor is served on failure.
	assert.Empty(t, rec.Body.String())
}

func TestVendorStructuredNotFoundKeepsStatusAndMessage(t *testing.T) {
	api := &fakeCatalogAPI{
		getVendor: func(ctx context.Context, id string) (*upstream.Vendor, error) {
			return nil, &upstream.APIError{Status: http.StatusNotFound, Message: "vendor not found"}
		},
	}
	h := NewHandler(api)

	c, _ := newContext(t, "/api/vendors/missing")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.Vendor(c)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "vendor not found", appErr.Message)
}
