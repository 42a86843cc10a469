package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/services"
	"github.com/researchagent/backend/internal/utils"
	"gorm.io/gorm"
)

// ProviderHandler handles per-user LLM credential routes
type ProviderHandler struct {
	DB *gorm.DB
}

type providerConfigRequest struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

type providerResponse struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

// GetProviders handles GET /api/llm-providers
// @Summary List the caller's stored provider credentials
// @Tags Providers
// @Produce json
// @Success 200 {array} providerResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /llm-providers [get]
func (h *ProviderHandler) GetProviders(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "providers.list")
	}

	creds, err := services.ListCredentials(h.DB, userID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "providers.list")
	}

	result := make([]providerResponse, 0, len(creds))
	for _, cred := range creds {
		result = append(result, providerResponse{
			Provider: string(cred.Provider),
			APIKey:   cred.APIKey,
			BaseURL:  cred.BaseURL,
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// UpdateProvider handles PUT /api/llm-providers/:provider
// @Summary Upsert the caller's credential for one provider
// @Tags Providers
// @Accept json
// @Produce json
// @Param provider path string true "Provider (openai, gemini, ollama)"
// @Param body body providerConfigRequest true "Credential data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /llm-providers/{provider} [put]
func (h *ProviderHandler) UpdateProvider(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "providers.update")
	}

	var req providerConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "providers.update")
	}

	if err := services.UpsertCredential(h.DB, userID, c.Params("provider"), req.APIKey, req.BaseURL); err != nil {
		return utils.ServiceErrorResponse(c, err, "Provider not found", "providers.update")
	}
	return utils.MessageResponse(c, "Provider configuration updated")
}
