package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
	"github.com/finance-tracker/ledger/internal/infra/logging"
	"github.com/finance-tracker/ledger/internal/infra/redisclient"
)

// app is a wired worker process. close releases its connections.
type app struct {
	*dependency.Injector
	close func()
}

// loadConfig reads the environment and applies the logging flags.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg := config.Load()
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}

	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, logger, nil
}

// bootstrap connects to the database and Redis and wires the engine.
func bootstrap(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	redisClient, err := redisclient.New(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, using process-local locks", "error", err)
		redisClient = nil
	}

	injector, err := dependency.NewInjector(cfg, database.DB(), redisClient, logger)
	if err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		database.Close()
		return nil, err
	}

	return &app{
		Injector: injector,
		close: func() {
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					logger.Error("Failed to close redis client", "error", err)
				}
			}
			if err := database.Close(); err != nil {
				logger.Error("Failed to close database connection", "error", err)
			}
		},
	}, nil
}
