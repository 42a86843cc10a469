package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/researchagent/backend/internal/auth"
	"github.com/researchagent/backend/internal/config"
	"github.com/researchagent/backend/internal/models"
	"github.com/researchagent/backend/internal/services"
	"github.com/researchagent/backend/internal/storage"
	"github.com/researchagent/backend/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login, and profile routes
type AuthHandler struct {
	DB    *gorm.DB
	Store storage.ObjectStore
	Cfg   *config.Config
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type userResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func viewUser(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	ttl := time.Duration(h.Cfg.JWTExpireDays) * 24 * time.Hour
	return auth.GenerateToken(user.ID, user.Username, user.Email, h.Cfg.JWTSecret, ttl)
}

// Register handles POST /api/auth/register
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Registration data"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.register")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return utils.ErrorResponse(c, "username, email and password are required", fiber.StatusBadRequest, "auth.register")
	}

	user, err := services.RegisterUser(h.DB, req.Username, req.Email, req.Password)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "User not found", "auth.register")
	}

	token, err := h.issueToken(user)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "auth.register")
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse{Token: token, User: viewUser(user)})
}

// Login handles POST /api/auth/login
// @Summary Authenticate by username or email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Login data"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.login")
	}

	user, err := services.LoginUser(h.DB, req.Username, req.Password)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "User not found", "auth.login")
	}

	token, err := h.issueToken(user)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "auth.login")
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse{Token: token, User: viewUser(user)})
}

// Me handles GET /api/auth/me
// @Summary Get the authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.me")
	}

	user, err := services.GetUser(h.DB, userID)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "User not found", "auth.me")
	}
	return c.Status(fiber.StatusOK).JSON(viewUser(user))
}

// UpdateProfile handles PUT /api/auth/profile with optional multipart avatar
// @Summary Update username and/or avatar
// @Tags Auth
// @Accept mpfd
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.profile")
	}

	username := c.FormValue("username")

	avatarURL := ""
	if header, err := c.FormFile("avatar"); err == nil && header != nil {
		upload, err := readUpload(header)
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "auth.profile")
		}
		objectPath := fmt.Sprintf("avatars/%d/%s-%s", userID, uuid.NewString(), upload.Name)
		if err := h.Store.Put(c.Context(), objectPath, upload.Data, upload.ContentType); err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "auth.profile")
		}
		avatarURL = "/api/files/" + objectPath
	}

	user, err := services.UpdateProfile(h.DB, userID, username, avatarURL)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "User not found", "auth.profile")
	}
	return c.Status(fiber.StatusOK).JSON(viewUser(user))
}

// ChangePassword handles PUT /api/auth/password
// @Summary Change the account password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body passwordChangeRequest true "Password change data"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.password")
	}

	var req passwordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.password")
	}

	if err := services.ChangePassword(h.DB, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return utils.ServiceErrorResponse(c, err, "User not found", "auth.password")
	}
	return utils.MessageResponse(c, "Password updated successfully")
}
