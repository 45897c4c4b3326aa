package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend/internal/domain/customer"
	"microlend/internal/domain/loan"
)

// statusFor maps domain errors to HTTP statuses. Anything unrecognized is a
// persistence/internal failure and must not leak its message to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrNotFound), errors.Is(err, customer.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, loan.ErrAlreadyDecided),
		errors.Is(err, loan.ErrInvalidState),
		errors.Is(err, loan.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, loan.ErrValidation), errors.Is(err, customer.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
