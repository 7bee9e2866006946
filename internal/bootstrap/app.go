package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/generation"
	"resume-formatter/internal/handles"
	"resume-formatter/internal/services/health"
	"resume-formatter/internal/session"
	"resume-formatter/internal/shared/config"
	"resume-formatter/internal/shared/server"
	"resume-formatter/internal/shared/storage/db"
	"resume-formatter/internal/shared/storage/object"
	localstore "resume-formatter/internal/shared/storage/object/local"
	s3store "resume-formatter/internal/shared/storage/object/s3"
	"resume-formatter/internal/shared/telemetry"
	"resume-formatter/internal/uploads"
	"resume-formatter/internal/workspace"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	Registry  *handles.Registry
	Persister session.Persister
	Sessions  *session.Manager
	Tracker   *generation.Tracker
	Health    *health.Service
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Health: health.NewService(),
	}
	if sqlDB != nil {
		app.Persister = &session.PGPersister{DB: sqlDB}
		app.Health.Register("db", sqlDB.PingContext)
	} else {
		app.Persister = session.NewMemoryPersister()
	}

	app.Registry = handles.New(store)
	app.Sessions = session.NewManager(app.Persister, app.Registry, cfg.PersistDebounce)
	app.Tracker = generation.NewTracker(generation.Options{
		Plan: generation.PlanConfig{
			MinDuration: cfg.GenerateMinDuration,
			Jitter:      cfg.GenerateJitter,
			StepJitter:  cfg.GenerateStepJitter,
		},
		Objects: store,
		Handles: app.Registry,
	})

	app.Router = server.NewRouter(server.RouterDeps{
		Config:    cfg,
		Health:    app.Health,
		Uploads:   uploads.NewHandler(app.Sessions, app.Tracker, store, cfg.MaxUploadBytes()),
		Workspace: workspace.NewHandler(app.Sessions, app.Tracker, app.Registry, cfg.PromptMaxChars),
	})

	return app, nil
}

// Close stops running jobs, flushes pending session writes and closes the
// database.
func (a *App) Close() {
	if a.Tracker != nil {
		a.Tracker.Stop()
	}
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			telemetry.Warn("bootstrap.db_close_failed", map[string]any{"err": err})
		}
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_sessions", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_sessions", map[string]any{"reason": "database connect failed", "err": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
