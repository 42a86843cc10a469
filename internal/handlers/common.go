package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/middleware"
	"github.com/researchagent/backend/internal/services"
)

// getUserID extracts the authenticated user id from context (set by the auth
// middleware)
func getUserID(c *fiber.Ctx) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, fmt.Errorf("user not found in context")
	}
	return id, nil
}

// readUpload drains one multipart file into memory
func readUpload(header *multipart.FileHeader) (services.FileUpload, error) {
	file, err := header.Open()
	if err != nil {
		return services.FileUpload{}, fmt.Errorf("failed to open upload %q: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.FileUpload{}, fmt.Errorf("failed to read upload %q: %w", header.Filename, err)
	}

	return services.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// paramUint parses a numeric route parameter
func paramUint(c *fiber.Ctx, name string) (uint, error) {
	value, err := c.ParamsInt(name)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return uint(value), nil
}
