package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/config"
	"github.com/researchagent/backend/internal/services"
	"github.com/researchagent/backend/internal/storage"
	"gorm.io/gorm"
)

// HealthHandler probes the service's collaborators
type HealthHandler struct {
	DB    *gorm.DB
	Store storage.ObjectStore
	Cfg   *config.Config
}

// Check handles GET /health
// @Summary Health check for the database and object storage
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	result := services.HealthCheck(c.Context(), h.Cfg, h.DB, h.Store)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
