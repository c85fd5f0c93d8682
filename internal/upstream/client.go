// Package upstream is the typed HTTP client for the marketplace REST API.
// The gateway never owns business data: every resource operation here is a
// thin, authenticated proxy call. The client distinguishes structured
// backend rejections (*APIError, carrying the backend's own message) from
// transport failures (plain wrapped errors) so callers can recover the
// former into user-facing state and treat the latter as outages.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the marketplace API client. Safe for concurrent use; the bearer
// token is supplied per call, not stored, because each browser session
// carries its own credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new marketplace API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a structured rejection reported by the marketplace API. Its
// Message is the backend's own human-readable message and is safe to show
// to the user.
type APIError struct {
	Status  int    `json:"-"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("marketplace API [%d]: %s (type: %s)", e.Status, e.Message, e.Type)
	}
	return fmt.Sprintf("marketplace API [%d]: %s", e.Status, e.Message)
}

// AsAPIError reports whether err is (or wraps) a structured backend
// rejection, and returns it if so.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorEnvelope is the wire shape of backend error responses.
type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// do issues a request and decodes the JSON response into out (unless out is
// nil). Non-2xx responses are returned as *APIError when the body carries a
// structured message, or as a plain error otherwise.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
			envelope.Error.Status = resp.StatusCode
			return envelope.Error
		}
		// The backend didn't produce a structured rejection; treat it like
		// any other transport-level failure.
		return fmt.Errorf("marketplace API returned %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	return nil
}

// truncate shortens a string for inclusion in error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// pageQuery builds the standard pagination query parameters.
func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if perPage > 0 {
		q.Set("per_page", fmt.Sprint(perPage))
	}
	return q
}
