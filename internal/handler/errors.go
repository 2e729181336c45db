package handler

import (
	"errors"
	"net/http"

	"registration-payment-relay/internal/service"

	"github.com/labstack/echo/v4"
)

// statusFor maps service sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrAuthentication):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// toHTTPError hides internal causes behind 5xx responses. The full error is kept
// as Internal so the access log still records it.
func toHTTPError(err error) *echo.HTTPError {
	code := statusFor(err)
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}
