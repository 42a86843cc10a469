package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/storage"
	"github.com/researchagent/backend/internal/types"
	"github.com/researchagent/backend/internal/utils"
)

// FileHandler streams stored objects back to the client
type FileHandler struct {
	Store storage.ObjectStore
}

// GetFile handles GET /api/files/*
// @Summary Fetch a stored object by path
// @Tags Files
// @Produce octet-stream
// @Param path path string true "Object path"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{path} [get]
func (h *FileHandler) GetFile(c *fiber.Ctx) error {
	objectPath := c.Params("*")
	if objectPath == "" {
		return utils.NotFoundResponse(c, "File not found")
	}

	data, contentType, err := h.Store.Get(c.Context(), objectPath)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return utils.NotFoundResponse(c, "File not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "files.get")
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusOK).Send(data)
}
