package services

import (
	"context"
	"fmt"
	"log"

	"github.com/researchagent/backend/internal/config"
	"github.com/researchagent/backend/internal/storage"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status        string            `json:"status"`
	Database      string            `json:"database"`
	ObjectStorage string            `json:"object_storage"`
	Details       map[string]string `json:"details,omitempty"`
	ErrorMessage  string            `json:"error,omitempty"`
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, store storage.ObjectStore) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.PingContext(ctx); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			log.Printf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Check object storage connectivity
	if err := store.Ping(ctx); err != nil {
		result.Status = "unhealthy"
		result.ObjectStorage = "unreachable"
		result.Details["object_storage_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("Object storage ping failed: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; object storage ping failed: %v", err)
		}
		log.Printf("Health check failed - object storage ping: %v", err)
	} else {
		result.ObjectStorage = "ok"
		result.Details["object_storage_bucket"] = cfg.MinioBucket
	}

	return result
}
