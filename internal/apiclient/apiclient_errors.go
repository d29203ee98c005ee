package apiclient

import (
	"fmt"
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrSessionExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Your session has expired, please login again",
		http.StatusUnauthorized,
	)

	ErrUnauthorized = apperror.New(
		apperror.CodeUnauthorized,
		"Unauthorized access",
		http.StatusUnauthorized,
	)

	ErrUnavailable = apperror.New(
		apperror.CodeUpstream,
		"Service temporarily unavailable, please try again",
		http.StatusServiceUnavailable,
	)

	ErrUpstream = apperror.New(
		apperror.CodeUpstream,
		"Something went wrong, please try again",
		http.StatusBadGateway,
	)
)

// APIError is a non-2xx answer from the commerce backend.
type APIError struct {
	Status  int
	Message string
	Path    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream %s responded %d: %s", e.Path, e.Status, e.Message)
}

// Unwrap maps the upstream status onto the storefront's own error taxonomy,
// keeping the backend's human-readable message.
func (e *APIError) Unwrap() error {
	var base *apperror.AppError
	switch {
	case e.Status == http.StatusUnauthorized:
		base = ErrUnauthorized
	case e.Status == http.StatusForbidden:
		base = apperror.New(apperror.CodeForbidden, "Access forbidden", http.StatusForbidden)
	case e.Status == http.StatusNotFound:
		base = apperror.New(apperror.CodeNotFound, "Not found", http.StatusNotFound)
	case e.Status == http.StatusConflict:
		base = apperror.New(apperror.CodeConflict, "Conflict", http.StatusConflict)
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		base = apperror.New(apperror.CodeValidation, "Invalid request", http.StatusBadRequest)
	default:
		base = ErrUpstream
	}
	if e.Message != "" {
		return base.WithMessage(e.Message)
	}
	return base
}
