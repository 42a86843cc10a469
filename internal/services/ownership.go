package services

import (
	"errors"

	"github.com/researchagent/backend/internal/models"
	"github.com/researchagent/backend/internal/types"
	"gorm.io/gorm"
)

// The ownership predicates below are the single authorization gate applied
// before every read or mutation. "Absent" and "owned by someone else" both
// come back as types.ErrNotFound so non-owners cannot probe for existence.

func conversationForUser(db *gorm.DB, userID, conversationID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := db.Where("id = ? AND user_id = ?", conversationID, userID).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func dialogForUser(db *gorm.DB, userID, dialogID uint) (*models.Dialog, error) {
	var dialog models.Dialog
	err := db.Joins("JOIN conversations ON conversations.id = dialogs.conversation_id").
		Where("dialogs.id = ? AND conversations.user_id = ?", dialogID, userID).
		First(&dialog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &dialog, nil
}

func sourceForUser(db *gorm.DB, userID, dialogID, sourceID uint) (*models.DialogSource, error) {
	var source models.DialogSource
	err := db.Joins("JOIN dialogs ON dialogs.id = dialog_sources.dialog_id").
		Joins("JOIN conversations ON conversations.id = dialogs.conversation_id").
		Where("dialog_sources.id = ? AND dialog_sources.dialog_id = ? AND conversations.user_id = ?",
			sourceID, dialogID, userID).
		First(&source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &source, nil
}
