package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/services"
	"github.com/researchagent/backend/internal/storage"
	"github.com/researchagent/backend/internal/utils"
	"gorm.io/gorm"
)

// DialogHandler handles dialog and dialog-source routes
type DialogHandler struct {
	DB    *gorm.DB
	Store storage.ObjectStore
}

// List handles GET /api/dialogs/conversation/:conversationId
// @Summary List a conversation's dialogs
// @Tags Dialogs
// @Produce json
// @Param conversationId path int true "Conversation ID"
// @Success 200 {array} services.DialogView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /dialogs/conversation/{conversationId} [get]
func (h *DialogHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "dialogs.list")
	}
	conversationID, err := paramUint(c, "conversationId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "dialogs.list")
	}

	views, err := services.ListDialogs(h.DB, userID, conversationID)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "Conversation not found", "dialogs.list")
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// Create handles POST /api/dialogs/conversation/:conversationId
// @Summary Create a dialog with optional generation parameters
// @Tags Dialogs
// @Accept json
// @Produce json
// @Param conversationId path int true "Conversation ID"
// @Param body body services.DialogCreateInput true "Dialog configuration"
// @Success 200 {object} services.DialogView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /dialogs/conversation/{conversationId} [post]
func (h *DialogHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "dialogs.create")
	}
	conversationID, err := paramUint(c, "conversationId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "dialogs.create")
	}

	var input services.DialogCreateInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "dialogs.create")
		}
	}

	view, err := services.CreateDialog(h.DB, userID, conversationID, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "Conversation not found", "dialogs.create")
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

// Update handles PUT /api/dialogs/:id
// @Summary Patch a dialog; absent fields are left untouched
// @Tags Dialogs
// @Accept json
// @Produce json
// @Param id path int true "Dialog ID"
// @Param body body services.DialogUpdateInput true "Fields to patch"
// @Success 200 {object} services.DialogView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /dialogs/{id} [put]
func (h *DialogHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "dialogs.update")
	}
	dialogID, err := paramUint(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "dialogs.update")
	}

	var input services.DialogUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "dialogs.update")
	}

	view, err := services.UpdateDialog(h.DB, userID, dialogID, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "Dialog not found", "dialogs.update")
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

// AddSources handles POST /api/dialogs/:id/sources. Multipart file uploads
// become file sources; a source_type/source_value pair becomes a link
// source. Both may appear in one request.
// @Summary Attach file or link sources to a dialog
// @Tags Dialogs
// @Accept mpfd
// @Produce json
// @Param id path int true "Dialog ID"
// @Success 200 {array} services.SourceView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /dialogs/{id}/sources [post]
func (h *DialogHandler) AddSources(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "dialogs.sources")
	}
	dialogID, err := paramUint(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "dialogs.sources")
	}

	views := []services.SourceView{}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		var uploads []services.FileUpload
		for _, header := range form.File["files"] {
			upload, err := readUpload(header)
			if err != nil {
				return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "dialogs.sources")
			}
			uploads = append(uploads, upload)
		}
		if len(uploads) > 0 {
			fileViews, err := services.AddFileSources(c.Context(), h.DB, h.Store, userID, dialogID, uploads)
			if err != nil {
				return utils.ServiceErrorResponse(c, err, "Dialog not found", "dialogs.sources")
			}
			views = append(views, fileViews...)
		}
	}

	sourceType := c.FormValue("source_type")
	sourceValue := c.FormValue("source_value")
	if sourceType != "" && sourceValue != "" {
		view, err := services.AddLinkSource(h.DB, userID, dialogID, sourceType, sourceValue)
		if err != nil {
			return utils.ServiceErrorResponse(c, err, "Dialog not found", "dialogs.sources")
		}
		views = append(views, *view)
	}

	return c.Status(fiber.StatusOK).JSON(views)
}

// DeleteSource handles DELETE /api/dialogs/:id/sources/:sourceId
// @Summary Detach a source; its stored object is deleted best-effort
// @Tags Dialogs
// @Produce json
// @Param id path int true "Dialog ID"
// @Param sourceId path int true "Source ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /dialogs/{id}/sources/{sourceId} [delete]
func (h *DialogHandler) DeleteSource(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "dialogs.sources")
	}
	dialogID, err := paramUint(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "dialogs.sources")
	}
	sourceID, err := paramUint(c, "sourceId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "dialogs.sources")
	}

	if err := services.DeleteSource(c.Context(), h.DB, h.Store, userID, dialogID, sourceID); err != nil {
		return utils.ServiceErrorResponse(c, err, "Source not found", "dialogs.sources")
	}
	return utils.MessageResponse(c, "Source deleted")
}
