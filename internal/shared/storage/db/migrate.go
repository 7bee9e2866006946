package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"resume-formatter/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// RunMigrations applies the embedded schema (the session_state table) via
// goose. A nil database is a no-op so memory-backed sessions need no schema.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through telemetry.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	telemetry.Info("db.migrate", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	telemetry.Error("db.migrate_fatal", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}
