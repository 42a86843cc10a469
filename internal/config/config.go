package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Object storage (MinIO) configuration
	MinioEndpoint  string
	MinioPort      string
	MinioUseSSL    bool
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string

	// JWT configuration
	JWTSecret     string
	JWTExpireDays int

	// Process-wide default LLM credentials, used when a user has not
	// stored their own for the resolved provider.
	OpenAIAPIKey  string
	GeminiAPIKey  string
	OllamaBaseURL string
}

// Load loads configuration from environment variables, reading an optional
// .env file first (existing environment wins over file values).
func Load() (*Config, error) {
	if envFile := getEnv("ENV_FILE", ".env"); envFile != "" {
		// A missing default .env is fine; an explicitly named file must exist.
		if err := godotenv.Load(envFile); err != nil && os.Getenv("ENV_FILE") != "" {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:              getEnv("PORT", "3001"),
		DBType:            getEnv("DB_TYPE", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", "research_agent"),
		DBUser:            getEnv("DB_USER", "research_user"),
		DBPassword:        getEnv("DB_PASSWORD", "research_password"),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		MinioEndpoint:     getEnv("MINIO_ENDPOINT", "localhost"),
		MinioPort:         getEnv("MINIO_PORT", "9000"),
		MinioUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinioAccessKey:    getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:    getEnv("MINIO_SECRET_KEY", "minioadmin123"),
		MinioBucket:       getEnv("MINIO_BUCKET", "research-agent-files"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTExpireDays:     getEnvAsInt("JWT_EXPIRE_DAYS", 7),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
