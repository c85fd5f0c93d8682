package cart

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/apperror"
	"github.com/petalworks/aisle/internal/session"
)

// Handler serves the cart JSON endpoints. The cart is keyed by the browser
// session, so every route here sits behind the authentication guard.
type Handler struct {
	carts *Manager
}

// NewHandler creates a cart handler.
func NewHandler(carts *Manager) *Handler {
	return &Handler{carts: carts}
}

// cartView is the JSON shape of the whole cart.
type cartView struct {
	Items     []Item  `json:"items"`
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
}

// view builds the response shape for a cart.
func view(c *Cart) cartView {
	items := c.Items()
	if items == nil {
		items = []Item{}
	}
	return cartView{
		Items:     items,
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
	}
}

// sessionCart resolves the request's cart from the session store injected
// by the auth guard.
func (h *Handler) sessionCart(c echo.Context) (*Cart, error) {
	store := session.StoreFrom(c)
	if store == nil {
		return nil, apperror.NewUnauthorized("authentication required")
	}
	return h.carts.For(store.SID()), nil
}

// Get returns the full cart (GET /api/cart).
func (h *Handler) Get(c echo.Context) error {
	cart, err := h.sessionCart(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view(cart))
}

// Count returns just the badge count (GET /api/cart/count).
func (h *Handler) Count(c echo.Context) error {
	cart, err := h.sessionCart(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"item_count": cart.ItemCount()})
}

// addRequest is the add-item payload.
type addRequest struct {
	ReferenceID string  `json:"reference_id"`
	Kind        Kind    `json:"kind"`
	Quantity    int     `json:"quantity"`
	Title       string  `json:"title"`
	UnitPrice   float64 `json:"unit_price"`
}

// Add puts an item in the cart (POST /api/cart/items).
func (h *Handler) Add(c echo.Context) error {
	var req addRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.ReferenceID == "" {
		return apperror.NewValidation("reference_id is required")
	}
	if !req.Kind.Valid() {
		return apperror.NewValidation("kind must be \"service\" or \"package\"")
	}

	cart, err := h.sessionCart(c)
	if err != nil {
		return err
	}
	cart.Add(req.ReferenceID, req.Kind, req.Quantity, req.Title, req.UnitPrice)
	return c.JSON(http.StatusOK, view(cart))
}

// Remove deletes an entry entirely (DELETE /api/cart/items/:kind/:ref).
func (h *Handler) Remove(c echo.Context) error {
	kind := Kind(c.Param("kind"))
	if !kind.Valid() {
		return apperror.NewValidation("kind must be \"service\" or \"package\"")
	}

	cart, err := h.sessionCart(c)
	if err != nil {
		return err
	}
	cart.Remove(c.Param("ref"), kind)
	return c.JSON(http.StatusOK, view(cart))
}

// Clear empties the cart (DELETE /api/cart).
func (h *Handler) Clear(c echo.Context) error {
	cart, err := h.sessionCart(c)
	if err != nil {
		return err
	}
	cart.Clear()
	return c.JSON(http.StatusOK, view(cart))
}
