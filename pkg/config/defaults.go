package config

import (
	"time"

	"mercator-hq/patternsweep/pkg/policy"
)

// Default values for configuration fields.
const (
	// Store defaults
	DefaultStoreBackend          = "claudeflow"
	DefaultStoreOperationTimeout = 30 * time.Second
	DefaultStoreRateBurst        = 1
	DefaultClaudeFlowCommand     = "npx"
	DefaultSQLitePath            = "data/patterns.db"
	DefaultSQLiteBusyTimeout     = 5 * time.Second
	DefaultSQLiteWALMode         = true
	DefaultPostgresMaxConns      = 4
	DefaultPostgresTable         = "pattern_records"

	// Sweep defaults
	DefaultSweepWorkers           = 1
	DefaultSweepRecordWorkers     = 1
	DefaultSweepNextCheckInterval = 7 * 24 * time.Hour

	// Schedule defaults
	DefaultScheduleCron = "0 3 * * 0"

	// Telemetry defaults
	DefaultLoggingLevel          = "info"
	DefaultLoggingFormat         = "text"
	DefaultMetricsEnabled        = true
	DefaultMetricsNamespace      = "patternsweep"
	DefaultMetricsSubsystem      = "sweep"
	DefaultServerListenAddress   = "127.0.0.1:9464"
	DefaultServerShutdownTimeout = 10 * time.Second
)

// DefaultClaudeFlowArgs returns the default CLI argument prefix.
func DefaultClaudeFlowArgs() []string {
	return []string{"claude-flow"}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.OperationTimeout == 0 {
		cfg.Store.OperationTimeout = DefaultStoreOperationTimeout
	}
	if cfg.Store.RateBurst == 0 {
		cfg.Store.RateBurst = DefaultStoreRateBurst
	}
	if cfg.Store.ClaudeFlow.Command == "" {
		cfg.Store.ClaudeFlow.Command = DefaultClaudeFlowCommand
		if cfg.Store.ClaudeFlow.Args == nil {
			cfg.Store.ClaudeFlow.Args = DefaultClaudeFlowArgs()
		}
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Store.SQLite.BusyTimeout == 0 {
		cfg.Store.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Store.SQLite.WALMode == nil {
		wal := DefaultSQLiteWALMode
		cfg.Store.SQLite.WALMode = &wal
	}
	if cfg.Store.Postgres.MaxConns == 0 {
		cfg.Store.Postgres.MaxConns = DefaultPostgresMaxConns
	}
	if cfg.Store.Postgres.Table == "" {
		cfg.Store.Postgres.Table = DefaultPostgresTable
	}

	// Policy defaults
	if len(cfg.Policies) == 0 {
		for _, p := range policy.Defaults() {
			cfg.Policies = append(cfg.Policies, PolicyConfig{Category: p.Category, MaxAgeDays: p.MaxAgeDays})
		}
	}

	// Sweep defaults
	if cfg.Sweep.Workers == 0 {
		cfg.Sweep.Workers = DefaultSweepWorkers
	}
	if cfg.Sweep.RecordWorkers == 0 {
		cfg.Sweep.RecordWorkers = DefaultSweepRecordWorkers
	}
	if cfg.Sweep.NextCheckInterval == 0 {
		cfg.Sweep.NextCheckInterval = DefaultSweepNextCheckInterval
	}

	// Schedule defaults
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = DefaultScheduleCron
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		enabled := DefaultMetricsEnabled
		cfg.Telemetry.Metrics.Enabled = &enabled
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Server.ListenAddress == "" {
		cfg.Telemetry.Server.ListenAddress = DefaultServerListenAddress
	}
	if cfg.Telemetry.Server.ShutdownTimeout == 0 {
		cfg.Telemetry.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
}
