// Command healthcheck probes the running service dependencies and
// exits non-zero when any of them is unreachable. Intended for
// container HEALTHCHECK directives and deploy smoke tests.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/researchagent/backend/internal/config"
	"github.com/researchagent/backend/internal/database"
	"github.com/researchagent/backend/internal/services"
	"github.com/researchagent/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	store, err := storage.NewMinioStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := services.HealthCheck(ctx, cfg, db, store)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health result: %v", err)
	}
	fmt.Println(string(out))

	if result.Status != "healthy" {
		os.Exit(1)
	}
}
