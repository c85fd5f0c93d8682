package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// OrderList is the orders collection response.
type OrderList struct {
	Items []Order  `json:"items"`
	Meta  ListMeta `json:"meta"`
}

// ListOwnOrders returns the authenticated customer's orders, newest first.
func (c *Client) ListOwnOrders(ctx context.Context, token string, page, perPage int) (*OrderList, error) {
	var list OrderList
	if err := c.do(ctx, http.MethodGet, "/v1/orders", token, pageQuery(page, perPage), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetOrder returns one of the authenticated customer's orders.
func (c *Client) GetOrder(ctx context.Context, token, id string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/v1/orders/"+id, token, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels a pending order. The backend rejects cancellation of
// orders past the confirmation cutoff with a structured message.
func (c *Client) CancelOrder(ctx context.Context, token, id string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/v1/orders/"+id+"/cancel", token, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ContactMessage is the contact-form payload forwarded to the marketplace.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendContactMessage forwards a contact-form submission.
func (c *Client) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	return c.do(ctx, http.MethodPost, "/v1/contact", "", url.Values{}, msg, nil)
}
