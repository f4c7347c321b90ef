package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"mercator-hq/patternsweep/pkg/cli"
	"mercator-hq/patternsweep/pkg/config"
	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records"
	"mercator-hq/patternsweep/pkg/records/storage"
	"mercator-hq/patternsweep/pkg/sweep"
	"mercator-hq/patternsweep/pkg/telemetry/logging"
	"mercator-hq/patternsweep/pkg/telemetry/metrics"
)

// configExplicit reports whether --config was given on the command line.
func configExplicit() bool {
	return rootCmd.PersistentFlags().Changed("config")
}

// loadConfig loads the configuration, applies flag overrides and installs
// the configured logger as the slog default.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile, configExplicit())
	if err != nil {
		return nil, nil, cli.NewConfigError(cfgFile, err.Error())
	}

	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return nil, nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// openStore opens the configured backend. A nil collector leaves the store
// uninstrumented.
func openStore(ctx context.Context, cfg *config.Config, collector *metrics.Collector) (records.Store, error) {
	slog.Debug("opening record store",
		"backend", cfg.Store.Backend,
		"dsn", cfg.Store.Postgres.DSN,
		"sqlite_path", cfg.Store.SQLite.Path,
	)

	store, err := storage.Open(ctx, cfg.StorageConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	return collector.InstrumentStore(store, cfg.Store.Backend), nil
}

func newSweeper(cfg *config.Config, store records.Store, table *policy.Table, logger *slog.Logger, opts ...sweep.Option) *sweep.Sweeper {
	base := []sweep.Option{
		sweep.WithLogger(logger),
		sweep.WithWorkers(cfg.Sweep.Workers),
		sweep.WithRecordWorkers(cfg.Sweep.RecordWorkers),
		sweep.WithNextCheckInterval(cfg.Sweep.NextCheckInterval),
		sweep.WithStrictArchivedCount(cfg.Sweep.StrictArchivedCount),
	}
	return sweep.New(store, table, append(base, opts...)...)
}
