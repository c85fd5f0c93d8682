// Package orders is the customer account surface: order history, order
// detail, and cancellation. All routes sit behind RequireAuth +
// RequireRole(customer) and proxy upstream with the session's token, so a
// customer can only ever see their own orders. Checkout itself lives with
// an external collaborator; the SPA reads the cart and hands off there.
package orders

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/apperror"
	"github.com/petalworks/aisle/internal/middleware"
	"github.com/petalworks/aisle/internal/session"
	"github.com/petalworks/aisle/internal/upstream"
)

// OrdersAPI is the slice of the marketplace client the customer area uses.
type OrdersAPI interface {
	ListOwnOrders(ctx context.Context, token string, page, perPage int) (*upstream.OrderList, error)
	GetOrder(ctx context.Context, token, id string) (*upstream.Order, error)
	CancelOrder(ctx context.Context, token, id string) (*upstream.Order, error)
}

// Handler handles the customer order endpoints.
type Handler struct {
	api OrdersAPI
}

// NewHandler creates a new orders handler.
func NewHandler(api OrdersAPI) *Handler {
	return &Handler{api: api}
}

func token(c echo.Context) (string, error) {
	store := session.StoreFrom(c)
	if store == nil || store.Token() == "" {
		return "", apperror.NewUnauthorized("authentication required")
	}
	return store.Token(), nil
}

// List returns the customer's order history (GET /api/orders).
func (h *Handler) List(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	page := middleware.ParsePage(c)
	list, err := h.api.ListOwnOrders(c.Request().Context(), tok, page.Number, page.PerPage)
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one order (GET /api/orders/:id).
func (h *Handler) Get(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	order, err := h.api.GetOrder(c.Request().Context(), tok, c.Param("id"))
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel cancels a pending order (POST /api/orders/:id/cancel). Orders past
// the confirmation cutoff come back as a structured rejection with the
// backend's message, which flows to the user unchanged.
func (h *Handler) Cancel(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	order, err := h.api.CancelOrder(c.Request().Context(), tok, c.Param("id"))
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, order)
}
