package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/researchagent/backend/internal/services"
	"github.com/researchagent/backend/internal/storage"
	"github.com/researchagent/backend/internal/utils"
	"gorm.io/gorm"
)

// ConversationHandler handles conversation CRUD routes
type ConversationHandler struct {
	DB    *gorm.DB
	Store storage.ObjectStore
}

// uploadAvatar stores an optional multipart avatar and returns its URL, or
// empty when no avatar was sent
func (h *ConversationHandler) uploadAvatar(c *fiber.Ctx, userID uint) (string, error) {
	header, err := c.FormFile("avatar")
	if err != nil || header == nil {
		return "", nil
	}
	upload, err := readUpload(header)
	if err != nil {
		return "", err
	}
	objectPath := fmt.Sprintf("conversations/%d/%s-%s", userID, uuid.NewString(), upload.Name)
	if err := h.Store.Put(c.Context(), objectPath, upload.Data, upload.ContentType); err != nil {
		return "", err
	}
	return "/api/files/" + objectPath, nil
}

// List handles GET /api/conversations
// @Summary List the caller's conversations with their dialogs
// @Tags Conversations
// @Produce json
// @Success 200 {array} services.ConversationView
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /conversations [get]
func (h *ConversationHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "conversations.list")
	}

	views, err := services.ListConversations(h.DB, userID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "conversations.list")
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// Create handles POST /api/conversations (multipart: title, avatar)
// @Summary Create a conversation
// @Tags Conversations
// @Accept mpfd
// @Produce json
// @Success 200 {object} services.ConversationView
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /conversations [post]
func (h *ConversationHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "conversations.create")
	}

	avatarURL, err := h.uploadAvatar(c, userID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "conversations.create")
	}

	view, err := services.CreateConversation(h.DB, userID, c.FormValue("title"), avatarURL)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "conversations.create")
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

// Update handles PUT /api/conversations/:id
// @Summary Update a conversation's title and/or avatar
// @Tags Conversations
// @Accept mpfd
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {object} services.ConversationView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /conversations/{id} [put]
func (h *ConversationHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "conversations.update")
	}
	conversationID, err := paramUint(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "conversations.update")
	}

	avatarURL, err := h.uploadAvatar(c, userID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "conversations.update")
	}

	view, err := services.UpdateConversation(h.DB, userID, conversationID, c.FormValue("title"), avatarURL)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "Conversation not found", "conversations.update")
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

// Delete handles DELETE /api/conversations/:id
// @Summary Delete a conversation and everything under it
// @Tags Conversations
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /conversations/{id} [delete]
func (h *ConversationHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "conversations.delete")
	}
	conversationID, err := paramUint(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "conversations.delete")
	}

	if err := services.DeleteConversation(h.DB, userID, conversationID); err != nil {
		return utils.ServiceErrorResponse(c, err, "Conversation not found", "conversations.delete")
	}
	return utils.MessageResponse(c, "Conversation deleted")
}
