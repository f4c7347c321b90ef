package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PATTERNSWEEP_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration without applying defaults. Unknown fields
// are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention PATTERNSWEEP_SECTION_FIELD (e.g., PATTERNSWEEP_STORE_BACKEND)
// and always take precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return finishWithEnv(cfg)
}

// Load resolves the configuration for the CLI. When path is the default path
// and the file does not exist, built-in defaults are used. An explicitly
// named file must exist.
func Load(path string, explicit bool) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err == nil {
		return cfg, nil
	}
	if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return finishWithEnv(Default())
}

func finishWithEnv(cfg *Config) (*Config, error) {
	if err := ApplyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnvOverrides applies PATTERNSWEEP_* overrides from lookup. Malformed
// values are reported as a ValidationError.
func ApplyEnvOverrides(cfg *Config, lookup LookupFunc) error {
	var errs []FieldError

	str := func(name string, dst *string) {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			*dst = val
		}
	}
	dur := func(name string, dst *time.Duration) {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid duration %q", val)})
				return
			}
			*dst = d
		}
	}
	integer := func(name string, dst *int) {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid integer %q", val)})
				return
			}
			*dst = i
		}
	}
	boolean := func(name string, dst *bool) {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid boolean %q", val)})
				return
			}
			*dst = b
		}
	}

	// Store overrides
	str("STORE_BACKEND", &cfg.Store.Backend)
	dur("STORE_OPERATION_TIMEOUT", &cfg.Store.OperationTimeout)
	if val, ok := lookup(EnvPrefix + "STORE_RATE_LIMIT"); ok && val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			errs = append(errs, FieldError{Field: EnvPrefix + "STORE_RATE_LIMIT", Message: fmt.Sprintf("invalid number %q", val)})
		} else {
			cfg.Store.RateLimit = f
		}
	}
	integer("STORE_RATE_BURST", &cfg.Store.RateBurst)
	str("STORE_CLAUDEFLOW_COMMAND", &cfg.Store.ClaudeFlow.Command)
	str("STORE_CLAUDEFLOW_WORK_DIR", &cfg.Store.ClaudeFlow.WorkDir)
	str("STORE_SQLITE_PATH", &cfg.Store.SQLite.Path)
	str("STORE_POSTGRES_DSN", &cfg.Store.Postgres.DSN)
	str("STORE_POSTGRES_TABLE", &cfg.Store.Postgres.Table)

	// Sweep overrides
	integer("SWEEP_WORKERS", &cfg.Sweep.Workers)
	integer("SWEEP_RECORD_WORKERS", &cfg.Sweep.RecordWorkers)
	dur("SWEEP_NEXT_CHECK_INTERVAL", &cfg.Sweep.NextCheckInterval)
	boolean("SWEEP_STRICT_ARCHIVED_COUNT", &cfg.Sweep.StrictArchivedCount)

	// Schedule overrides
	str("SCHEDULE_CRON", &cfg.Schedule.Cron)
	boolean("SCHEDULE_RUN_ON_START", &cfg.Schedule.RunOnStart)
	boolean("SCHEDULE_WATCH_CONFIG", &cfg.Schedule.WatchConfig)

	// Telemetry overrides
	str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	if cfg.Telemetry.Metrics.Enabled != nil {
		boolean("TELEMETRY_METRICS_ENABLED", cfg.Telemetry.Metrics.Enabled)
	}
	str("TELEMETRY_SERVER_LISTEN_ADDRESS", &cfg.Telemetry.Server.ListenAddress)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
