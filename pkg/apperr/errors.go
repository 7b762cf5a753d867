// Package apperr holds the error categories shared by every layer. Callers wrap
// one of the sentinels with fmt.Errorf("%w: ...") and handlers map them to
// status codes with errors.Is.
package apperr

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("upstream error")
	ErrPersistence     = errors.New("persistence error")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Status returns the HTTP status and the client-facing message for err.
// Upstream and persistence details are never returned to the client.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusInternalServerError, "request timed out"
	case errors.Is(err, ErrUpstream):
		return http.StatusInternalServerError, "upstream service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
