package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-formatter/internal/bootstrap"
	"resume-formatter/internal/shared/config"
	"resume-formatter/internal/shared/server"
	"resume-formatter/internal/shared/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, os.Stdout)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"err": err})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Event streams hang off baseCtx so they end when shutdown starts.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("api.listening", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		telemetry.Info("api.shutdown", nil)
	case err := <-errCh:
		if err != nil {
			telemetry.Error("api.server_error", map[string]any{"err": err})
			exitCode = 1
		}
	}

	cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Warn("api.shutdown_incomplete", map[string]any{"err": err})
	}
	app.Close()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
