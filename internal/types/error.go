package types

import (
	"errors"
	"fmt"
)

// CustomError carries an HTTP status code and a machine-readable type
// alongside the message, for the global Fiber error handler.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Sentinel errors for the service layer. Handlers map these to HTTP codes.
var (
	// ErrNotFound covers both a genuinely absent resource and one owned by
	// another user. The two cases are deliberately indistinguishable to the
	// caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for login or password-change failure.
	// A single error for unknown-user and wrong-password avoids leaking
	// whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidProvider is returned for a provider literal outside the
	// recognized set (openai, gemini, ollama).
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already exists")
)
