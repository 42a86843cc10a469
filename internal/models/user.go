package models

import (
	"time"
)

// Provider identifies one of the recognized LLM backends
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// ValidProvider reports whether p is one of the recognized provider literals
func ValidProvider(p string) bool {
	switch Provider(p) {
	case ProviderOpenAI, ProviderGemini, ProviderOllama:
		return true
	}
	return false
}

// User represents an authenticated tenant; all other entities hang off it
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:255;not null;uniqueIndex"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	AvatarURL    string `gorm:"size:500"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Credentials   []LLMCredential `gorm:"constraint:OnDelete:CASCADE"`
	Conversations []Conversation  `gorm:"constraint:OnDelete:CASCADE"`
}

// LLMCredential stores one provider's secret for one user.
// At most one row exists per (user, provider) pair.
type LLMCredential struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"`
	UserID    uint     `gorm:"not null;index:idx_user_provider,unique"`
	Provider  Provider `gorm:"size:20;not null;index:idx_user_provider,unique"`
	APIKey    string   `gorm:"type:text"`
	BaseURL   string   `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for LLMCredential
func (LLMCredential) TableName() string {
	return "llm_credentials"
}
