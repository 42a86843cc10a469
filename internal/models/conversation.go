package models

import (
	"time"
)

// SourceType identifies the kind of document attached to a dialog
type SourceType string

const (
	SourceFile  SourceType = "file"
	SourceDOI   SourceType = "doi"
	SourceArxiv SourceType = "arxiv"
	SourceURL   SourceType = "url"
)

// Conversation is a named collection of dialogs owned by one user
type Conversation struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    uint   `gorm:"not null;index"`
	Title     string `gorm:"size:255;not null"`
	AvatarURL string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Dialogs []Dialog `gorm:"constraint:OnDelete:CASCADE"`
}

// Dialog is a configured chat session within a conversation. The generation
// scalars are stored with two decimal digits of precision; no range
// validation is applied beyond that.
type Dialog struct {
	ID               uint    `gorm:"primaryKey;autoIncrement"`
	ConversationID   uint    `gorm:"not null;index"`
	Title            string  `gorm:"size:255;not null"`
	LLMModel         string  `gorm:"size:100;default:gpt-4"`
	Freedom          float64 `gorm:"type:decimal(3,2);default:0.50"`
	Temperature      float64 `gorm:"type:decimal(3,2);default:0.70"`
	TopP             float64 `gorm:"type:decimal(3,2);default:0.90"`
	PresencePenalty  float64 `gorm:"type:decimal(3,2);default:0.00"`
	FrequencyPenalty float64 `gorm:"type:decimal(3,2);default:0.00"`
	MaxTokens        int     `gorm:"default:2000"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Messages []Message      `gorm:"constraint:OnDelete:CASCADE"`
	Sources  []DialogSource `gorm:"constraint:OnDelete:CASCADE"`
}

// DialogSource is a document or external reference attached to a dialog.
// File sources carry file metadata and a storage path; doi/arxiv/url sources
// carry the identifier in SourceValue.
type DialogSource struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"`
	DialogID    uint       `gorm:"not null;index"`
	FileName    string     `gorm:"size:255;not null"`
	FilePath    string     `gorm:"size:500"`
	FileType    string     `gorm:"size:50"`
	FileSize    int64      `gorm:"default:0"`
	SourceType  SourceType `gorm:"size:20;default:file"`
	SourceValue string     `gorm:"size:500"`
	CreatedAt   time.Time
}

// TableName overrides the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// TableName overrides the table name for Dialog
func (Dialog) TableName() string {
	return "dialogs"
}

// TableName overrides the table name for DialogSource
func (DialogSource) TableName() string {
	return "dialog_sources"
}
