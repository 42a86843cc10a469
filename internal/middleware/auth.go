package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/auth"
	"github.com/researchagent/backend/internal/types"
)

// Locals keys set by the auth middleware
const (
	LocalUserID   = "userId"
	LocalUsername = "username"
	LocalEmail    = "email"
)

// AuthUser validates the bearer token and stores the caller's identity in
// the request locals
func AuthUser(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Missing bearer token",
				Type:    "auth.token",
			}
		}

		claims, err := auth.ParseToken(token, jwtSecret)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Invalid authentication credentials",
				Type:    "auth.token",
			}
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalEmail, claims.Email)

		return c.Next()
	}
}

// UserID extracts the authenticated user id stored by AuthUser
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok
}
