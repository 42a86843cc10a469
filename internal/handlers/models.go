package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/llm"
)

// ModelsHandler serves the static model catalog
type ModelsHandler struct{}

// GetModels handles GET /api/models
// @Summary List the selectable models per provider
// @Tags Models
// @Produce json
// @Success 200 {object} map[string][]llm.ModelCard
// @Router /models [get]
func (h *ModelsHandler) GetModels(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(llm.ModelCards)
}
