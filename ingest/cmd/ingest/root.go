package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/common/logging"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/config"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/repository"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

// app holds state shared by every subcommand once configuration is loaded.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "ingest",
		Short: "SeaWatch vessel telemetry ingestion service",
		Long: `ingest accepts signal readings from registered vessels, validates them
against the signal registry and stores them in PostgreSQL.

Running without a subcommand starts the HTTP server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")

	rootCmd.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedSignalsCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	// Initialize structured logging
	a.logger = logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("ingest"))
	logging.SetDefault(a.logger)

	if a.configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", a.configPath))
	}
	return nil
}

// openRepository connects the configured storage backend.
func (a *app) openRepository(ctx context.Context) (repository.Repository, error) {
	switch a.cfg.Database.Type {
	case config.DatabaseTypeMemory:
		slog.Warn("Using in-memory storage; data is lost on restart")
		return repository.NewInMemoryRepository(), nil
	default:
		repo, err := repository.NewPostgresRepository(ctx, a.cfg.Database.ConnString(), a.cfg.Database.PoolConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return repo, nil
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ingest %s\n", version)
		},
	}
}
