package services

import (
	"time"

	"github.com/researchagent/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationView is the API shape for a conversation with its dialogs
type ConversationView struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DialogCount int64        `json:"dialog_count"`
	Dialogs     []DialogView `json:"dialogs"`
}

func conversationView(db *gorm.DB, conv *models.Conversation, withDialogs bool) (*ConversationView, error) {
	view := &ConversationView{
		ID:        conv.ID,
		Title:     conv.Title,
		AvatarURL: conv.AvatarURL,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Dialogs:   []DialogView{},
	}

	if err := db.Model(&models.Dialog{}).
		Where("conversation_id = ?", conv.ID).
		Count(&view.DialogCount).Error; err != nil {
		return nil, err
	}

	if withDialogs {
		var dialogs []models.Dialog
		if err := db.Where("conversation_id = ?", conv.ID).
			Order("updated_at DESC").
			Find(&dialogs).Error; err != nil {
			return nil, err
		}
		for i := range dialogs {
			view.Dialogs = append(view.Dialogs, dialogView(&dialogs[i], 0, nil))
		}
	}

	return view, nil
}

// ListConversations returns the user's conversations, most recently updated
// first, each with its dialogs
func ListConversations(db *gorm.DB, userID uint) ([]ConversationView, error) {
	var convs []models.Conversation
	if err := db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&convs).Error; err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(convs))
	for i := range convs {
		view, err := conversationView(db, &convs[i], true)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// CreateConversation creates a conversation owned by userID
func CreateConversation(db *gorm.DB, userID uint, title, avatarURL string) (*ConversationView, error) {
	if title == "" {
		title = "New Conversation"
	}
	conv := models.Conversation{
		UserID:    userID,
		Title:     title,
		AvatarURL: avatarURL,
	}
	if err := db.Create(&conv).Error; err != nil {
		return nil, err
	}
	return conversationView(db, &conv, false)
}

// UpdateConversation applies the present fields after the ownership check
func UpdateConversation(db *gorm.DB, userID, conversationID uint, title, avatarURL string) (*ConversationView, error) {
	conv, err := conversationForUser(db, userID, conversationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title != "" {
		updates["title"] = title
	}
	if avatarURL != "" {
		updates["avatar_url"] = avatarURL
	}
	if len(updates) > 0 {
		if err := db.Model(conv).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return conversationView(db, conv, false)
}

// DeleteConversation removes a conversation and everything under it. The
// walk is explicit so the cascade does not depend on dialect-specific
// foreign-key enforcement.
func DeleteConversation(db *gorm.DB, userID, conversationID uint) error {
	if _, err := conversationForUser(db, userID, conversationID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var dialogIDs []uint
		if err := tx.Model(&models.Dialog{}).
			Where("conversation_id = ?", conversationID).
			Pluck("id", &dialogIDs).Error; err != nil {
			return err
		}

		if len(dialogIDs) > 0 {
			if err := deleteDialogChildren(tx, dialogIDs); err != nil {
				return err
			}
			if err := tx.Where("conversation_id = ?", conversationID).
				Delete(&models.Dialog{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Conversation{}, conversationID).Error
	})
}

// deleteDialogChildren removes messages, message files, and sources for the
// given dialogs
func deleteDialogChildren(tx *gorm.DB, dialogIDs []uint) error {
	var messageIDs []uint
	if err := tx.Model(&models.Message{}).
		Where("dialog_id IN ?", dialogIDs).
		Pluck("id", &messageIDs).Error; err != nil {
		return err
	}
	if len(messageIDs) > 0 {
		if err := tx.Where("message_id IN ?", messageIDs).
			Delete(&models.MessageFile{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("dialog_id IN ?", dialogIDs).
		Delete(&models.Message{}).Error; err != nil {
		return err
	}
	return tx.Where("dialog_id IN ?", dialogIDs).
		Delete(&models.DialogSource{}).Error
}
