package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/researchagent/backend/internal/config"
	"github.com/researchagent/backend/internal/handlers"
	"github.com/researchagent/backend/internal/llm"
	"github.com/researchagent/backend/internal/middleware"
	"github.com/researchagent/backend/internal/models"
	"github.com/researchagent/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.LLMCredential{},
		&models.Conversation{},
		&models.Dialog{},
		&models.DialogSource{},
		&models.Message{},
		&models.MessageFile{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// memoryStore is a minimal in-memory object store for handler tests
type memoryStore struct {
	objects map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	m.objects[path] = data
	return nil
}

func (m *memoryStore) Get(ctx context.Context, path string) ([]byte, string, error) {
	data, ok := m.objects[path]
	if !ok {
		return nil, "", types.ErrNotFound
	}
	return data, "application/octet-stream", nil
}

func (m *memoryStore) Delete(ctx context.Context, path string) error {
	delete(m.objects, path)
	return nil
}

func (m *memoryStore) Ping(ctx context.Context) error {
	return nil
}

// echoInvoker replies to every completion with a fixed answer
type echoInvoker struct {
	err error
}

func (e *echoInvoker) Complete(ctx context.Context, modelID string, messages []llm.TurnMessage, params llm.GenerationParams, cred llm.Resolved) (*llm.Completion, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &llm.Completion{
		Role:             "assistant",
		Content:          "Test answer",
		PromptTokens:     10,
		CompletionTokens: 2,
		TotalTokens:      12,
	}, nil
}

var testConfig = &config.Config{
	JWTSecret:     "test-secret",
	JWTExpireDays: 1,
}

// newTestApp wires all API routes the way the server does
func newTestApp(db *gorm.DB, invoker llm.Invoker) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := err.Error()
			var custom *types.CustomError
			if errors.As(err, &custom) {
				code = custom.Code
				message = custom.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"status":    code,
				"message":   message,
				"ok":        false,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
				"url":       c.OriginalURL(),
			})
		},
	})

	store := newMemoryStore()
	authHandler := &handlers.AuthHandler{DB: db, Store: store, Cfg: testConfig}
	providerHandler := &handlers.ProviderHandler{DB: db}
	conversationHandler := &handlers.ConversationHandler{DB: db, Store: store}
	dialogHandler := &handlers.DialogHandler{DB: db, Store: store}
	messageHandler := &handlers.MessageHandler{DB: db, Invoker: invoker, Defaults: llm.Defaults{OpenAIAPIKey: "default-key"}}
	modelsHandler := &handlers.ModelsHandler{}
	fileHandler := &handlers.FileHandler{Store: store}

	api := app.Group("/api")
	authRequired := middleware.AuthUser(testConfig.JWTSecret)

	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/me", authRequired, authHandler.Me)
	api.Put("/auth/profile", authRequired, authHandler.UpdateProfile)
	api.Put("/auth/password", authRequired, authHandler.ChangePassword)

	api.Get("/llm-providers", authRequired, providerHandler.GetProviders)
	api.Put("/llm-providers/:provider", authRequired, providerHandler.UpdateProvider)

	api.Get("/conversations", authRequired, conversationHandler.List)
	api.Post("/conversations", authRequired, conversationHandler.Create)
	api.Put("/conversations/:id", authRequired, conversationHandler.Update)
	api.Delete("/conversations/:id", authRequired, conversationHandler.Delete)

	api.Get("/dialogs/conversation/:conversationId", authRequired, dialogHandler.List)
	api.Post("/dialogs/conversation/:conversationId", authRequired, dialogHandler.Create)
	api.Put("/dialogs/:id", authRequired, dialogHandler.Update)
	api.Post("/dialogs/:id/sources", authRequired, dialogHandler.AddSources)
	api.Delete("/dialogs/:id/sources/:sourceId", authRequired, dialogHandler.DeleteSource)

	api.Get("/messages/dialog/:dialogId", authRequired, messageHandler.List)
	api.Post("/messages/dialog/:dialogId", authRequired, messageHandler.Create)
	api.Post("/messages/dialog/:dialogId/chat", authRequired, messageHandler.Chat)

	api.Get("/models", modelsHandler.GetModels)
	api.Get("/files/*", fileHandler.GetFile)

	return app
}

// jsonRequest builds a JSON request with an optional bearer token
func jsonRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// decodeJSON decodes a response body into a generic map
func decodeJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return result
}

// decodeJSONList decodes a JSON array response body into out
func decodeJSONList(t *testing.T, resp *http.Response, out interface{}) {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response list: %v", err)
	}
}

// registerUser registers through the API and returns the issued token
func registerUser(t *testing.T, app *fiber.App, username string) string {
	req := jsonRequest(t, "POST", "/api/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "test-password",
	}, "")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected register to succeed, got %d", resp.StatusCode)
	}

	result := decodeJSON(t, resp)
	token, _ := result["token"].(string)
	if token == "" {
		t.Fatal("Expected a token in the register response")
	}
	return token
}
