// Package main implements the entry point for the Autolist API server,
// which serves vehicle listings with their image galleries, comments and likes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/autolist-api/internal/config"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/platform/postgres"
	"github.com/spf13/pflag"
)

const flagMigrate = "migrate"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run parses flags, loads configuration and either executes a migration
// command or serves HTTP until ctx is canceled or a shutdown signal arrives.
func run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("autolist-api", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	migrateCmd := fs.String(flagMigrate, "",
		"run a migration command (up, down, reset, status, version) and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadWithFlags(fs)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("storage_driver", cfg.Storage.Driver))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if *migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return postgres.Migrate(ctx, db, *migrateCmd, log)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
