package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/researchagent/backend/internal/models"
	"github.com/researchagent/backend/internal/storage"
	"github.com/researchagent/backend/internal/types"
	"gorm.io/gorm"
)

// DialogView is the API shape for a dialog with its generation parameters
type DialogView struct {
	ID               uint         `json:"id"`
	Title            string       `json:"title"`
	LLMModel         string       `json:"llm_model"`
	Freedom          float64      `json:"freedom"`
	Temperature      float64      `json:"temperature"`
	TopP             float64      `json:"top_p"`
	PresencePenalty  float64      `json:"presence_penalty"`
	FrequencyPenalty float64      `json:"frequency_penalty"`
	MaxTokens        int          `json:"max_tokens"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	MessageCount     int64        `json:"message_count"`
	Sources          []SourceView `json:"sources"`
}

// SourceView is the API shape for an attached source
type SourceView struct {
	ID          uint   `json:"id"`
	FileName    string `json:"file_name"`
	SourceType  string `json:"source_type"`
	SourceValue string `json:"source_value,omitempty"`
}

// DialogCreateInput holds the optional fields a dialog may be created with.
// Omitted fields take the documented defaults.
type DialogCreateInput struct {
	Title            *string  `json:"title"`
	LLMModel         *string  `json:"llm_model"`
	Freedom          *float64 `json:"freedom"`
	Temperature      *float64 `json:"temperature"`
	TopP             *float64 `json:"top_p"`
	PresencePenalty  *float64 `json:"presence_penalty"`
	FrequencyPenalty *float64 `json:"frequency_penalty"`
	MaxTokens        *int     `json:"max_tokens"`
}

// DialogUpdateInput is a partial patch; only present fields are applied,
// absent fields are left untouched and never reset to defaults.
type DialogUpdateInput struct {
	Title            *string  `json:"title"`
	LLMModel         *string  `json:"llm_model"`
	Freedom          *float64 `json:"freedom"`
	Temperature      *float64 `json:"temperature"`
	TopP             *float64 `json:"top_p"`
	PresencePenalty  *float64 `json:"presence_penalty"`
	FrequencyPenalty *float64 `json:"frequency_penalty"`
	MaxTokens        *int     `json:"max_tokens"`
}

func dialogView(dialog *models.Dialog, messageCount int64, sources []models.DialogSource) DialogView {
	view := DialogView{
		ID:               dialog.ID,
		Title:            dialog.Title,
		LLMModel:         dialog.LLMModel,
		Freedom:          dialog.Freedom,
		Temperature:      dialog.Temperature,
		TopP:             dialog.TopP,
		PresencePenalty:  dialog.PresencePenalty,
		FrequencyPenalty: dialog.FrequencyPenalty,
		MaxTokens:        dialog.MaxTokens,
		CreatedAt:        dialog.CreatedAt,
		UpdatedAt:        dialog.UpdatedAt,
		MessageCount:     messageCount,
		Sources:          []SourceView{},
	}
	for i := range sources {
		view.Sources = append(view.Sources, sourceView(&sources[i]))
	}
	return view
}

func sourceView(s *models.DialogSource) SourceView {
	return SourceView{
		ID:          s.ID,
		FileName:    s.FileName,
		SourceType:  string(s.SourceType),
		SourceValue: s.SourceValue,
	}
}

// ListDialogs returns a conversation's dialogs, most recently updated first,
// with message counts and sources
func ListDialogs(db *gorm.DB, userID, conversationID uint) ([]DialogView, error) {
	if _, err := conversationForUser(db, userID, conversationID); err != nil {
		return nil, err
	}

	var dialogs []models.Dialog
	if err := db.Where("conversation_id = ?", conversationID).
		Order("updated_at DESC").
		Find(&dialogs).Error; err != nil {
		return nil, err
	}

	views := make([]DialogView, 0, len(dialogs))
	for i := range dialogs {
		var count int64
		if err := db.Model(&models.Message{}).
			Where("dialog_id = ?", dialogs[i].ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		var sources []models.DialogSource
		if err := db.Where("dialog_id = ?", dialogs[i].ID).Find(&sources).Error; err != nil {
			return nil, err
		}
		views = append(views, dialogView(&dialogs[i], count, sources))
	}
	return views, nil
}

// CreateDialog creates a dialog under a conversation the user owns. Any
// field the input omits takes its documented default.
func CreateDialog(db *gorm.DB, userID, conversationID uint, input DialogCreateInput) (*DialogView, error) {
	if _, err := conversationForUser(db, userID, conversationID); err != nil {
		return nil, err
	}

	dialog := models.Dialog{
		ConversationID:   conversationID,
		Title:            "New Dialog",
		LLMModel:         "gpt-4",
		Freedom:          0.50,
		Temperature:      0.70,
		TopP:             0.90,
		PresencePenalty:  0.00,
		FrequencyPenalty: 0.00,
		MaxTokens:        2000,
	}
	if input.Title != nil && *input.Title != "" {
		dialog.Title = *input.Title
	}
	if input.LLMModel != nil && *input.LLMModel != "" {
		dialog.LLMModel = *input.LLMModel
	}
	if input.Freedom != nil {
		dialog.Freedom = *input.Freedom
	}
	if input.Temperature != nil {
		dialog.Temperature = *input.Temperature
	}
	if input.TopP != nil {
		dialog.TopP = *input.TopP
	}
	if input.PresencePenalty != nil {
		dialog.PresencePenalty = *input.PresencePenalty
	}
	if input.FrequencyPenalty != nil {
		dialog.FrequencyPenalty = *input.FrequencyPenalty
	}
	if input.MaxTokens != nil {
		dialog.MaxTokens = *input.MaxTokens
	}

	if err := db.Create(&dialog).Error; err != nil {
		return nil, err
	}

	view := dialogView(&dialog, 0, nil)
	return &view, nil
}

// UpdateDialog applies a partial patch to a dialog the user owns
func UpdateDialog(db *gorm.DB, userID, dialogID uint, input DialogUpdateInput) (*DialogView, error) {
	dialog, err := dialogForUser(db, userID, dialogID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil && *input.Title != "" {
		updates["title"] = *input.Title
	}
	if input.LLMModel != nil && *input.LLMModel != "" {
		updates["llm_model"] = *input.LLMModel
	}
	if input.Freedom != nil {
		updates["freedom"] = *input.Freedom
	}
	if input.Temperature != nil {
		updates["temperature"] = *input.Temperature
	}
	if input.TopP != nil {
		updates["top_p"] = *input.TopP
	}
	if input.PresencePenalty != nil {
		updates["presence_penalty"] = *input.PresencePenalty
	}
	if input.FrequencyPenalty != nil {
		updates["frequency_penalty"] = *input.FrequencyPenalty
	}
	if input.MaxTokens != nil {
		updates["max_tokens"] = *input.MaxTokens
	}
	if len(updates) > 0 {
		if err := db.Model(dialog).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var count int64
	if err := db.Model(&models.Message{}).
		Where("dialog_id = ?", dialog.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	var sources []models.DialogSource
	if err := db.Where("dialog_id = ?", dialog.ID).Find(&sources).Error; err != nil {
		return nil, err
	}
	view := dialogView(dialog, count, sources)
	return &view, nil
}

// FileUpload is one multipart file's data for source attachment
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// AddFileSources uploads each file to object storage and records a file
// source per upload. Each step commits independently; there is no rollback
// of earlier uploads if a later one fails.
func AddFileSources(ctx context.Context, db *gorm.DB, store storage.ObjectStore, userID, dialogID uint, files []FileUpload) ([]SourceView, error) {
	if _, err := dialogForUser(db, userID, dialogID); err != nil {
		return nil, err
	}

	views := make([]SourceView, 0, len(files))
	for _, file := range files {
		objectPath := fmt.Sprintf("sources/%d/%d/%d-%s", userID, dialogID, time.Now().UnixMilli(), file.Name)
		if err := store.Put(ctx, objectPath, file.Data, file.ContentType); err != nil {
			return nil, err
		}

		source := models.DialogSource{
			DialogID:    dialogID,
			FileName:    file.Name,
			FilePath:    "/api/files/" + objectPath,
			FileType:    file.ContentType,
			FileSize:    int64(len(file.Data)),
			SourceType:  models.SourceFile,
			SourceValue: file.Name,
		}
		if err := db.Create(&source).Error; err != nil {
			return nil, err
		}
		views = append(views, sourceView(&source))
	}
	return views, nil
}

// AddLinkSource records a doi/arxiv/url source for a dialog the user owns
func AddLinkSource(db *gorm.DB, userID, dialogID uint, sourceType, sourceValue string) (*SourceView, error) {
	switch models.SourceType(sourceType) {
	case models.SourceDOI, models.SourceArxiv, models.SourceURL:
	default:
		return nil, &types.CustomError{
			Code:    400,
			Message: fmt.Sprintf("Invalid source type: %s", sourceType),
			Type:    "dialogs.source",
		}
	}

	if _, err := dialogForUser(db, userID, dialogID); err != nil {
		return nil, err
	}

	source := models.DialogSource{
		DialogID:    dialogID,
		FileName:    sourceValue,
		SourceType:  models.SourceType(sourceType),
		SourceValue: sourceValue,
	}
	if err := db.Create(&source).Error; err != nil {
		return nil, err
	}
	view := sourceView(&source)
	return &view, nil
}

// DeleteSource removes a source row. The stored object, if any, is deleted
// best-effort: a storage failure is logged and swallowed and the row is
// deleted regardless.
func DeleteSource(ctx context.Context, db *gorm.DB, store storage.ObjectStore, userID, dialogID, sourceID uint) error {
	source, err := sourceForUser(db, userID, dialogID, sourceID)
	if err != nil {
		return err
	}

	if source.FilePath != "" {
		objectPath := strings.TrimPrefix(source.FilePath, "/api/files/")
		if err := store.Delete(ctx, objectPath); err != nil {
			log.Printf("Failed to delete stored object %q: %v", objectPath, err)
		}
	}

	return db.Delete(&models.DialogSource{}, source.ID).Error
}
