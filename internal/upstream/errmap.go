package upstream

import (
	"net/http"

	"github.com/petalworks/aisle/internal/apperror"
)

// MapError converts a client error into the gateway's error taxonomy so
// handlers can return it directly. Structured backend rejections keep their
// status and message; transport failures and backend 5xx become a 502 with
// the detail kept internal.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Status >= http.StatusInternalServerError {
		return apperror.NewUnavailable(err)
	}

	switch apiErr.Status {
	case http.StatusUnauthorized:
		return apperror.NewUnauthorized(apiErr.Message)
	case http.StatusForbidden:
		return apperror.NewForbidden(apiErr.Message)
	case http.StatusNotFound:
		return apperror.NewNotFound(apiErr.Message)
	case http.StatusConflict:
		return apperror.NewConflict(apiErr.Message)
	case http.StatusUnprocessableEntity:
		return apperror.NewValidation(apiErr.Message)
	default:
		return apperror.NewBadRequest(apiErr.Message)
	}
}
