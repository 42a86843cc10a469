package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/llm"
	"github.com/researchagent/backend/internal/services"
	"github.com/researchagent/backend/internal/types"
	"github.com/researchagent/backend/internal/utils"
	"gorm.io/gorm"
)

// MessageHandler handles message and chat-turn routes
type MessageHandler struct {
	DB       *gorm.DB
	Invoker  llm.Invoker
	Defaults llm.Defaults
}

type chatRequest struct {
	Content string `json:"content"`
}

// List handles GET /api/messages/dialog/:dialogId
// @Summary List a dialog's transcript in chronological order
// @Tags Messages
// @Produce json
// @Param dialogId path int true "Dialog ID"
// @Success 200 {array} services.MessageView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /messages/dialog/{dialogId} [get]
func (h *MessageHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "messages.list")
	}
	dialogID, err := paramUint(c, "dialogId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "messages.list")
	}

	views, err := services.ListMessages(h.DB, userID, dialogID)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "Dialog not found", "messages.list")
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// Create handles POST /api/messages/dialog/:dialogId
// @Summary Append one message to a dialog
// @Tags Messages
// @Accept json
// @Produce json
// @Param dialogId path int true "Dialog ID"
// @Param body body services.MessageCreateInput true "Message data"
// @Success 200 {object} services.MessageView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /messages/dialog/{dialogId} [post]
func (h *MessageHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "messages.create")
	}
	dialogID, err := paramUint(c, "dialogId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "messages.create")
	}

	var input services.MessageCreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "messages.create")
	}

	view, err := services.CreateMessage(h.DB, userID, dialogID, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "Dialog not found", "messages.create")
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

// Chat handles POST /api/messages/dialog/:dialogId/chat: one full turn
// against the dialog's configured model
// @Summary Run a chat turn and persist both sides
// @Tags Messages
// @Accept json
// @Produce json
// @Param dialogId path int true "Dialog ID"
// @Param body body chatRequest true "User message"
// @Success 200 {object} services.ChatResult
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /messages/dialog/{dialogId}/chat [post]
func (h *MessageHandler) Chat(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "messages.chat")
	}
	dialogID, err := paramUint(c, "dialogId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "messages.chat")
	}

	var req chatRequest
	if err := c.BodyParser(&req); err != nil || req.Content == "" {
		return utils.ErrorResponse(c, "content is required", fiber.StatusBadRequest, "messages.chat")
	}

	result, err := services.RunChatTurn(c.Context(), h.DB, h.Invoker, h.Defaults, userID, dialogID, req.Content)
	if err != nil {
		// Errors outside the service taxonomy are provider failures here.
		var custom *types.CustomError
		if !errors.Is(err, types.ErrNotFound) && !errors.As(err, &custom) {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "messages.chat")
		}
		return utils.ServiceErrorResponse(c, err, "Dialog not found", "messages.chat")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
