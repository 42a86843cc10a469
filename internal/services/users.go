package services

import (
	"errors"

	"github.com/researchagent/backend/internal/auth"
	"github.com/researchagent/backend/internal/models"
	"github.com/researchagent/backend/internal/types"
	"gorm.io/gorm"
)

// RegisterUser creates a new account after checking username/email
// uniqueness. The plaintext password is hashed and never stored.
func RegisterUser(db *gorm.DB, username, email, password string) (*models.User, error) {
	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, types.ErrDuplicateUser
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// LoginUser authenticates by username or email. Unknown account and wrong
// password collapse into the same error.
func LoginUser(db *gorm.DB, usernameOrEmail, password string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, types.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser fetches a user by id
func GetUser(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the present fields; empty values leave the profile
// untouched
func UpdateProfile(db *gorm.DB, userID uint, username, avatarURL string) (*models.User, error) {
	user, err := GetUser(db, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if username != "" {
		updates["username"] = username
	}
	if avatarURL != "" {
		updates["avatar_url"] = avatarURL
	}
	if len(updates) > 0 {
		if err := db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash
func ChangePassword(db *gorm.DB, userID uint, currentPassword, newPassword string) error {
	user, err := GetUser(db, userID)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(user.PasswordHash, currentPassword) {
		return types.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return db.Model(user).Update("password_hash", hash).Error
}
