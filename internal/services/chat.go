package services

import (
	"context"

	"github.com/researchagent/backend/internal/llm"
	"github.com/researchagent/backend/internal/models"
	"gorm.io/gorm"
)

// ChatResult is the outcome of one chat turn: the persisted agent message
// plus the usage metadata the provider reported
type ChatResult struct {
	Message          MessageView `json:"message"`
	PromptTokens     int         `json:"prompt_tokens"`
	CompletionTokens int         `json:"completion_tokens"`
	TotalTokens      int         `json:"total_tokens"`
}

// RunChatTurn appends the user's message, resolves the dialog's model to a
// provider and credential, issues one completion over the full transcript,
// and appends the reply. The user message commits before the upstream call;
// an upstream failure propagates verbatim with no compensation, leaving the
// user message in place.
func RunChatTurn(ctx context.Context, db *gorm.DB, invoker llm.Invoker, defaults llm.Defaults, userID, dialogID uint, content string) (*ChatResult, error) {
	dialog, err := dialogForUser(db, userID, dialogID)
	if err != nil {
		return nil, err
	}

	userMessage := models.Message{
		DialogID: dialogID,
		Role:     models.RoleUser,
		Content:  content,
	}
	if err := db.Create(&userMessage).Error; err != nil {
		return nil, err
	}

	var history []models.Message
	if err := db.Where("dialog_id = ?", dialogID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		return nil, err
	}

	transcript := make([]llm.TurnMessage, 0, len(history))
	for i := range history {
		role := "user"
		if history[i].Role == models.RoleAgent {
			role = "assistant"
		}
		transcript = append(transcript, llm.TurnMessage{Role: role, Content: history[i].Content})
	}

	resolved, err := llm.Resolve(dialog.LLMModel, userID, GormCredentials{DB: db}, defaults)
	if err != nil {
		return nil, err
	}

	params := llm.GenerationParams{
		Temperature:      &dialog.Temperature,
		TopP:             &dialog.TopP,
		PresencePenalty:  &dialog.PresencePenalty,
		FrequencyPenalty: &dialog.FrequencyPenalty,
		MaxTokens:        &dialog.MaxTokens,
	}

	completion, err := invoker.Complete(ctx, dialog.LLMModel, transcript, params, resolved)
	if err != nil {
		return nil, err
	}

	agentMessage := models.Message{
		DialogID: dialogID,
		Role:     models.RoleAgent,
		Content:  completion.Content,
	}
	if err := db.Create(&agentMessage).Error; err != nil {
		return nil, err
	}

	return &ChatResult{
		Message:          messageView(&agentMessage),
		PromptTokens:     completion.PromptTokens,
		CompletionTokens: completion.CompletionTokens,
		TotalTokens:      completion.TotalTokens,
	}, nil
}
