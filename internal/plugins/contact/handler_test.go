package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petalworks/aisle/internal/apperror"
	"github.com/petalworks/aisle/internal/upstream"
)

type fakeContactAPI struct {
	sent []upstream.ContactMessage
	err  error
}

func (f *fakeContactAPI) SendContactMessage(ctx context.Context, msg upstream.ContactMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func submit(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSendForwardsSanitizedMessage(t *testing.T) {
	api := &fakeContactAPI{}
	h := NewHandler(api)

	c, rec := submit(t, `{"name":"Avery <script>alert(1)</script>","email":" avery@example.com ","subject":"Booking","body":"Hello <b>there</b>"}`)
	require.NoError(t, h.Send(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, api.sent, 1)
	msg := api.sent[0]
	assert.Equal(t, "avery@example.com", msg.Email)
	assert.NotContains(t, msg.Name, "<script>")
	assert.NotContains(t, msg.Body, "<b>")
	assert.Contains(t, msg.Body, "Hello")
}

func TestSendRejectsMissingFieldsBeforeUpstream(t *testing.T) {
	api := &fakeContactAPI{}
	h := NewHandler(api)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"no name", `{"email":"a@b.com","body":"hi"}`, "name is required"},
		{"no email", `{"name":"Avery","body":"hi"}`, "email is required"},
		{"bad email", `{"name":"Avery","email":"not-an-email","body":"hi"}`, "email is not valid"},
		{"no body", `{"name":"Avery","email":"a@b.com"}`, "message is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := submit(t, tt.body)
			err := h.Send(c)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
			assert.Equal(t, tt.want, appErr.Message)
		})
	}
	assert.Empty(t, api.sent, "rejected submissions must not reach upstream")
}

func TestSendSurfacesUpstreamOutage(t *testing.T) {
	api := &fakeContactAPI{err: context.DeadlineExceeded}
	h := NewHandler(api)

	c, _ := submit(t, `{"name":"Avery","email":"a@b.com","body":"hi"}`)
	err := h.Send(c)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
}
