package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"productive-boards/internal/api"
	"productive-boards/internal/config"
	"productive-boards/internal/repository"
	"productive-boards/internal/service"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "boards",
	Short:         "ProductiveBoards project and task tracking API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		logger := newLogger(cfg)
		db, err := repository.NewDB(cfg.DatabaseURL, logger)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		if err := repository.NewStore(db).Close(); err != nil {
			return fmt.Errorf("close db: %w", err)
		}
		logger.Info("schema up to date", "database", cfg.DatabaseURL)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "boards %s (commit: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("BOARDS_CONFIG"), "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := newLogger(cfg)

	db, err := repository.NewDB(cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	store := repository.NewStore(db)
	defer store.Close()

	services := api.Services{
		Auth:     service.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL, logger),
		Projects: service.NewProjectService(store, logger),
		Tasks:    service.NewTaskService(store, logger),
		Comments: service.NewCommentService(store, logger),
		Users:    service.NewUserService(store),
	}

	if cfg.MaintenanceInterval > 0 {
		scheduler := service.NewSchedulerService(time.Local, logger)
		if _, err := scheduler.ScheduleMaintenance(cfg.MaintenanceInterval, store); err != nil {
			return fmt.Errorf("schedule maintenance: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := api.NewServer(services, cfg.CORSOrigins, logger)
	logger.Info("ProductiveBoards API started", "version", version, "database", cfg.DatabaseURL)
	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}
