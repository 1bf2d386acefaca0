package dto

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phibrew/vidstream-backend/internal/apperr"
)

// APIResponse is the envelope every endpoint returns, success or failure.
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// Success writes a success envelope with the given status.
func Success(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Fail maps a service error to its status and writes a failure envelope.
// Internal errors are masked by apperr.Message.
func Fail(c *fiber.Ctx, err error) error {
	status := apperr.Status(err)
	return c.Status(status).JSON(APIResponse{
		StatusCode: status,
		Data:       nil,
		Message:    apperr.Message(err),
		Success:    false,
	})
}
