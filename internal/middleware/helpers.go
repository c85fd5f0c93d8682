package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// WantsJSON reports whether the request expects a JSON response rather than
// a browser navigation. API paths and fetch/XHR requests get JSON errors;
// plain browser navigations get redirects. Guards and the central error
// handler use this to pick between the two.
func WantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/api") {
		return true
	}
	if c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	accept := c.Request().Header.Get("Accept")
	return strings.Contains(accept, "application/json") &&
		!strings.Contains(accept, "text/html")
}

// defaultPerPage is the page size used when the client doesn't specify one.
const defaultPerPage = 20

// maxPerPage caps the page size so a single request can't ask the upstream
// for an unbounded collection.
const maxPerPage = 100

// Page holds parsed pagination parameters.
type Page struct {
	Number  int
	PerPage int
}

// ParsePage reads ?page= and ?per_page= query parameters with clamped
// defaults. Used by every list handler so pagination behaves uniformly
// across the customer, vendor, and admin areas.
func ParsePage(c echo.Context) Page {
	p := Page{Number: 1, PerPage: defaultPerPage}

	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && n > 0 {
		p.PerPage = n
		if p.PerPage > maxPerPage {
			p.PerPage = maxPerPage
		}
	}
	return p
}
