// Package apperr defines the error kinds services return and handlers map to
// HTTP statuses. Services wrap a kind with context via Wrap; handlers match
// with errors.Is and never expose internal detail for 5xx.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

// Wrap attaches a user-facing message to a kind. The message is what handlers
// surface; the kind decides the status code.
func Wrap(kind error, msg string) error {
	return fmt.Errorf("%s: %w", msg, kind)
}

// Status maps an error to its HTTP status code. Unknown errors are treated as
// internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the user-facing message for an error. Internal errors are
// masked so storage details never reach the response.
func Message(err error) string {
	if Status(err) == fiber.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
