package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/config"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/handlers"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/server"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/service"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := a.cfg

	slog.Info("Starting Ingest service",
		slog.Int("port", cfg.Server.Port),
		slog.String("database_type", cfg.Database.Type),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if cfg.Auth.AdminKey == config.DefaultAdminKey {
		slog.Warn("Admin key is the built-in default; set auth.admin_key")
	}

	// Run database migrations
	if cfg.Database.Type == config.DatabaseTypePostgres && cfg.Migrations.AutoRun {
		slog.Info("Running database migrations", slog.String("path", cfg.Migrations.Path))
		if err := migrateUp(cfg.Migrations.Path, cfg.Database.ConnString()); err != nil {
			return err
		}
		slog.Info("Database migrations completed")
	}

	repo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	// Initialize services
	metricsService := service.NewMetricsService(repo)
	authService := service.NewAuthService(repo, a.logger)
	ingestService := service.NewIngestService(repo, repo, repo, metricsService, a.logger)
	vesselService := service.NewVesselService(repo, a.logger)

	// Initialize HTTP handlers
	handler := handlers.New(handlers.Config{
		Ingest:       ingestService,
		Vessels:      vesselService,
		APIKeys:      authService,
		Metrics:      metricsService,
		MaxBodyBytes: cfg.Server.MaxBodySize,
		Logger:       a.logger,
	})
	router := server.NewRouter(handler, server.Options{
		APIKeys:  authService,
		AdminKey: cfg.Auth.AdminKey,
	})

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Ingest service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		slog.Info("Shutting down server", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.Info("Shutting down server", slog.String("reason", ctx.Err().Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
