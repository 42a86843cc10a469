package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/researchagent/backend/internal/models"
	"github.com/researchagent/backend/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageView is the API shape for one dialog turn
type MessageView struct {
	ID         uint            `json:"id"`
	Role       string          `json:"role"`
	Content    string          `json:"content"`
	Reasoning  json.RawMessage `json:"reasoning,omitempty"`
	Confidence string          `json:"confidence,omitempty"`
	Sources    json.RawMessage `json:"sources,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// MessageCreateInput holds one appended turn. Reasoning and Sources are
// structured payloads stored verbatim.
type MessageCreateInput struct {
	Role       string          `json:"role"`
	Content    string          `json:"content"`
	Reasoning  json.RawMessage `json:"reasoning"`
	Confidence string          `json:"confidence"`
	Sources    json.RawMessage `json:"sources"`
}

func messageView(m *models.Message) MessageView {
	return MessageView{
		ID:         m.ID,
		Role:       string(m.Role),
		Content:    m.Content,
		Reasoning:  json.RawMessage(m.Reasoning),
		Confidence: m.Confidence,
		Sources:    json.RawMessage(m.Sources),
		CreatedAt:  m.CreatedAt,
	}
}

// ListMessages returns a dialog's transcript in chronological order
func ListMessages(db *gorm.DB, userID, dialogID uint) ([]MessageView, error) {
	if _, err := dialogForUser(db, userID, dialogID); err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := db.Where("dialog_id = ?", dialogID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, messageView(&messages[i]))
	}
	return views, nil
}

// CreateMessage appends one turn to a dialog the user owns. Messages are
// immutable once created.
func CreateMessage(db *gorm.DB, userID, dialogID uint, input MessageCreateInput) (*MessageView, error) {
	role := models.Role(input.Role)
	if role != models.RoleUser && role != models.RoleAgent {
		return nil, &types.CustomError{
			Code:    400,
			Message: fmt.Sprintf("Invalid message role: %s", input.Role),
			Type:    "messages.role",
		}
	}

	if _, err := dialogForUser(db, userID, dialogID); err != nil {
		return nil, err
	}

	message := models.Message{
		DialogID:   dialogID,
		Role:       role,
		Content:    input.Content,
		Reasoning:  datatypes.JSON(input.Reasoning),
		Confidence: input.Confidence,
		Sources:    datatypes.JSON(input.Sources),
	}
	if err := db.Create(&message).Error; err != nil {
		return nil, err
	}
	view := messageView(&message)
	return &view, nil
}
