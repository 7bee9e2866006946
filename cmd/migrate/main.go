package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"resume-formatter/internal/shared/config"
	"resume-formatter/internal/shared/storage/db"
	"resume-formatter/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, os.Stdout)
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"err": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
