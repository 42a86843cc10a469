package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/types"
)

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// MessageResponse sends a simple success message
func MessageResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
		"ok":      true,
	})
}

// ServiceErrorResponse maps the service error taxonomy to HTTP responses.
// notFoundMessage is used for the absent-or-not-owned outcome.
func ServiceErrorResponse(c *fiber.Ctx, err error, notFoundMessage, errorType string) error {
	var custom *types.CustomError
	switch {
	case errors.Is(err, types.ErrNotFound):
		return NotFoundResponse(c, notFoundMessage)
	case errors.Is(err, types.ErrInvalidCredentials):
		return ErrorResponse(c, "Invalid credentials", fiber.StatusUnauthorized, errorType)
	case errors.Is(err, types.ErrInvalidProvider):
		return ErrorResponse(c, "Invalid provider", fiber.StatusBadRequest, errorType)
	case errors.Is(err, types.ErrDuplicateUser):
		return ErrorResponse(c, "Username or email already exists", fiber.StatusBadRequest, errorType)
	case errors.As(err, &custom):
		return ErrorResponse(c, custom.Message, custom.Code, custom.Type)
	default:
		return ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}
