package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/researchagent/backend/internal/config"
	"github.com/researchagent/backend/internal/database"
	"github.com/researchagent/backend/internal/handlers"
	"github.com/researchagent/backend/internal/llm"
	"github.com/researchagent/backend/internal/middleware"
	"github.com/researchagent/backend/internal/storage"
	"github.com/researchagent/backend/internal/types"

	_ "github.com/researchagent/backend/docs/api" // Swagger docs
)

// @title Research Agent API
// @version 1.0.0
// @description Multi-tenant conversational research assistant backend

// @host localhost:3001
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to object storage
	store, err := storage.NewMinioStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    50 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("research_agent")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	defaults := llm.Defaults{
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
	}
	authHandler := &handlers.AuthHandler{DB: db, Store: store, Cfg: cfg}
	providerHandler := &handlers.ProviderHandler{DB: db}
	conversationHandler := &handlers.ConversationHandler{DB: db, Store: store}
	dialogHandler := &handlers.DialogHandler{DB: db, Store: store}
	messageHandler := &handlers.MessageHandler{DB: db, Invoker: &llm.ClientInvoker{}, Defaults: defaults}
	modelsHandler := &handlers.ModelsHandler{}
	fileHandler := &handlers.FileHandler{Store: store}
	healthHandler := &handlers.HealthHandler{DB: db, Store: store, Cfg: cfg}

	app.Get("/health", healthHandler.Check)

	// API routes under /api
	api := app.Group("/api")
	authRequired := middleware.AuthUser(cfg.JWTSecret)

	// Auth routes
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/me", authRequired, authHandler.Me)
	api.Put("/auth/profile", authRequired, authHandler.UpdateProfile)
	api.Put("/auth/password", authRequired, authHandler.ChangePassword)

	// Provider credential routes
	api.Get("/llm-providers", authRequired, providerHandler.GetProviders)
	api.Put("/llm-providers/:provider", authRequired, providerHandler.UpdateProvider)

	// Conversation routes
	api.Get("/conversations", authRequired, conversationHandler.List)
	api.Post("/conversations", authRequired, conversationHandler.Create)
	api.Put("/conversations/:id", authRequired, conversationHandler.Update)
	api.Delete("/conversations/:id", authRequired, conversationHandler.Delete)

	// Dialog routes
	api.Get("/dialogs/conversation/:conversationId", authRequired, dialogHandler.List)
	api.Post("/dialogs/conversation/:conversationId", authRequired, dialogHandler.Create)
	api.Put("/dialogs/:id", authRequired, dialogHandler.Update)
	api.Post("/dialogs/:id/sources", authRequired, dialogHandler.AddSources)
	api.Delete("/dialogs/:id/sources/:sourceId", authRequired, dialogHandler.DeleteSource)

	// Message routes
	api.Get("/messages/dialog/:dialogId", authRequired, messageHandler.List)
	api.Post("/messages/dialog/:dialogId", authRequired, messageHandler.Create)
	api.Post("/messages/dialog/:dialogId/chat", authRequired, messageHandler.Chat)

	// Model catalog and stored files
	api.Get("/models", modelsHandler.GetModels)
	api.Get("/files/*", fileHandler.GetFile)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
