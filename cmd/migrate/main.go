package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"coursefit-backend/internal/bootstrap"
	"coursefit-backend/internal/shared/config"
	"coursefit-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, dialect, err := bootstrap.OpenDatabase(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to migrate database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()
	log.Printf("migrations applied (%s)", dialect)
}
