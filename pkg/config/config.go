package config

import "time"

// Config is the root configuration structure for patternsweep.
type Config struct {
	// Store selects and configures the record store backend.
	Store StoreConfig `yaml:"store"`

	// Policies are the per-category expiry rules, in sweep order.
	// Default: the four built-in pattern categories.
	Policies []PolicyConfig `yaml:"policies"`

	// Sweep tunes a single sweep run.
	Sweep SweepConfig `yaml:"sweep"`

	// Schedule configures the long-running scheduled mode.
	Schedule ScheduleConfig `yaml:"schedule"`

	// Telemetry contains logging, metrics and status server settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StoreConfig configures the record store.
type StoreConfig struct {
	// Backend is one of "claudeflow", "sqlite", "postgres" or "memory".
	// Default: "claudeflow"
	Backend string `yaml:"backend"`

	// OperationTimeout bounds every store operation. Zero disables it.
	// Default: 30s
	OperationTimeout time.Duration `yaml:"operation_timeout"`

	// RateLimit caps store operations per second. Zero means unlimited.
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the limiter burst size.
	// Default: 1
	RateBurst int `yaml:"rate_burst"`

	ClaudeFlow ClaudeFlowConfig `yaml:"claudeflow"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Postgres   PostgresConfig   `yaml:"postgres"`
}

// ClaudeFlowConfig configures the claude-flow CLI backend.
type ClaudeFlowConfig struct {
	// Command is the executable.
	// Default: "npx"
	Command string `yaml:"command"`

	// Args precede every memory subcommand.
	// Default: ["claude-flow"]
	Args []string `yaml:"args"`

	// WorkDir is the CLI working directory.
	WorkDir string `yaml:"work_dir"`
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: "data/patterns.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode *bool `yaml:"wal_mode"`
}

// PostgresConfig configures the Postgres backend.
type PostgresConfig struct {
	// DSN is the connection URL. Required when backend is "postgres".
	DSN string `yaml:"dsn"`

	// MaxConns caps the pool size.
	// Default: 4
	MaxConns int32 `yaml:"max_conns"`

	// Table is the records table.
	// Default: "pattern_records"
	Table string `yaml:"table"`
}

// PolicyConfig is one category's expiry rule.
type PolicyConfig struct {
	Category   string `yaml:"category"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// SweepConfig tunes sweep execution.
type SweepConfig struct {
	// Workers is the number of categories swept concurrently.
	// Default: 1
	Workers int `yaml:"workers"`

	// RecordWorkers is the number of records of one category processed
	// concurrently.
	// Default: 1
	RecordWorkers int `yaml:"record_workers"`

	// NextCheckInterval is added to the check time for next_check_recommended.
	// Default: 168h
	NextCheckInterval time.Duration `yaml:"next_check_interval"`

	// StrictArchivedCount counts records whose source delete failed as not
	// archived.
	StrictArchivedCount bool `yaml:"strict_archived_count"`
}

// ScheduleConfig configures scheduled mode.
type ScheduleConfig struct {
	// Cron is a five-field cron expression.
	// Default: "0 3 * * 0" (weekly)
	Cron string `yaml:"cron"`

	// RunOnStart runs one sweep immediately when scheduling starts.
	RunOnStart bool `yaml:"run_on_start"`

	// WatchConfig reloads policies when the config file changes.
	WatchConfig bool `yaml:"watch_config"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Server  ServerConfig  `yaml:"server"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled exposes /metrics on the status server.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	// Default: "patternsweep"
	Namespace string `yaml:"namespace"`

	// Subsystem follows the namespace in metric names.
	// Default: "sweep"
	Subsystem string `yaml:"subsystem"`
}

// ServerConfig configures the status server used in scheduled mode.
type ServerConfig struct {
	// ListenAddress is "host:port".
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// MetricsEnabled reports whether metrics are enabled.
func (c *Config) MetricsEnabled() bool {
	return c.Telemetry.Metrics.Enabled == nil || *c.Telemetry.Metrics.Enabled
}

// WALEnabled reports whether SQLite WAL mode is enabled.
func (c *Config) WALEnabled() bool {
	return c.Store.SQLite.WALMode == nil || *c.Store.SQLite.WALMode
}
