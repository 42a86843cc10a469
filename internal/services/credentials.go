package services

import (
	"errors"

	"github.com/researchagent/backend/internal/models"
	"github.com/researchagent/backend/internal/types"
	"gorm.io/gorm"
)

// GetCredential fetches the stored credential for a (user, provider) pair.
// Absence is a normal outcome: returns (nil, nil) so the caller falls back to
// the process-wide defaults, never to another user's credentials.
func GetCredential(db *gorm.DB, userID uint, provider models.Provider) (*models.LLMCredential, error) {
	var cred models.LLMCredential
	err := db.Where("user_id = ? AND provider = ?", userID, provider).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// ListCredentials returns all credentials stored by a user
func ListCredentials(db *gorm.DB, userID uint) ([]models.LLMCredential, error) {
	var creds []models.LLMCredential
	if err := db.Where("user_id = ?", userID).Find(&creds).Error; err != nil {
		return nil, err
	}
	return creds, nil
}

// UpsertCredential updates the existing unique (user, provider) row or
// inserts a new one; it never creates duplicates. The stored row reflects
// the call's values verbatim, including cleared fields.
func UpsertCredential(db *gorm.DB, userID uint, provider string, apiKey, baseURL string) error {
	if !models.ValidProvider(provider) {
		return types.ErrInvalidProvider
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.LLMCredential
		err := tx.Where("user_id = ? AND provider = ?", userID, provider).First(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return tx.Create(&models.LLMCredential{
				UserID:   userID,
				Provider: models.Provider(provider),
				APIKey:   apiKey,
				BaseURL:  baseURL,
			}).Error
		}

		return tx.Model(&existing).
			Select("APIKey", "BaseURL").
			Updates(models.LLMCredential{APIKey: apiKey, BaseURL: baseURL}).Error
	})
}

// GormCredentials adapts the credential functions to the resolver's
// single-read interface
type GormCredentials struct {
	DB *gorm.DB
}

func (g GormCredentials) GetCredential(userID uint, provider models.Provider) (*models.LLMCredential, error) {
	return GetCredential(g.DB, userID, provider)
}
