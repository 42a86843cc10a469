package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one turn in a dialog. Messages are append-only; there is no
// update path.
type Message struct {
	ID         uint           `gorm:"primaryKey;autoIncrement"`
	DialogID   uint           `gorm:"not null;index"`
	Role       Role           `gorm:"size:20;not null"`
	Content    string         `gorm:"type:text"`
	Reasoning  datatypes.JSON `gorm:"type:json"`
	Confidence string         `gorm:"size:50"`
	Sources    datatypes.JSON `gorm:"type:json"`
	CreatedAt  time.Time

	Files []MessageFile `gorm:"constraint:OnDelete:CASCADE"`
}

// MessageFile is an attachment bound to a message
type MessageFile struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	MessageID uint   `gorm:"not null;index"`
	FileName  string `gorm:"size:255;not null"`
	FilePath  string `gorm:"size:500;not null"`
	FileType  string `gorm:"size:50"`
	FileSize  int64  `gorm:"default:0"`
	CreatedAt time.Time
}

// TableName overrides the table name for Message
func (Message) TableName() string {
	return "messages"
}

// TableName overrides the table name for MessageFile
func (MessageFile) TableName() string {
	return "message_files"
}
