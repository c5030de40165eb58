package handler

import (
	"errors"
	"net/http"

	"obrafacil/internal/service"
)

// statusFor maps service errors to HTTP status codes. Unknown errors are
// treated as bad requests so the message still reaches the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrApprovedBudget):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBudgetNotFound),
		errors.Is(err, service.ErrMaterialNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateCodigo),
		errors.Is(err, service.ErrDeletionRequestPending):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
