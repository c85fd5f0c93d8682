// Package contact is the public contact form: validate, strip any markup
// from the free-text fields, forward to the marketplace. Rate limited since
// it is an anonymous write endpoint.
package contact

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/petalworks/aisle/internal/apperror"
	"github.com/petalworks/aisle/internal/sanitize"
	"github.com/petalworks/aisle/internal/upstream"
)

// ContactAPI is the slice of the marketplace client the form uses.
type ContactAPI interface {
	SendContactMessage(ctx context.Context, msg upstream.ContactMessage) error
}

// Handler handles contact form submissions.
type Handler struct {
	api ContactAPI
}

// NewHandler creates a new contact handler.
func NewHandler(api ContactAPI) *Handler {
	return &Handler{api: api}
}

// Request is the contact form payload.
type Request struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Body    string `json:"body" form:"body"`
}

// validateRequest returns an error message or empty string.
func validateRequest(req *Request) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		return "email is required"
	}
	if !strings.Contains(req.Email, "@") {
		return "email is not valid"
	}
	if strings.TrimSpace(req.Body) == "" {
		return "message is required"
	}
	if len(req.Body) > 5000 {
		return "message must be at most 5000 characters"
	}
	return ""
}

// Send processes a contact form submission (POST /api/contact).
func (h *Handler) Send(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if msg := validateRequest(&req); msg != "" {
		return apperror.NewValidation(msg)
	}

	err := h.api.SendContactMessage(c.Request().Context(), upstream.ContactMessage{
		Name:    sanitize.Text(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: sanitize.Text(req.Subject),
		Body:    sanitize.Text(req.Body),
	})
	if err != nil {
		return upstream.MapError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
