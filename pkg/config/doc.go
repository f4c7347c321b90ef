// Package config provides configuration management for patternsweep.
//
// Configuration is loaded from a YAML file, completed with defaults,
// overridden from the environment and validated. The resulting *Config is an
// immutable value passed explicitly to the components that need it.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfigWithEnvOverrides("patternsweep.yaml")
//
// The CLI uses Load, which falls back to built-in defaults when the default
// file is absent.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PATTERNSWEEP_SECTION_FIELD:
//
//   - PATTERNSWEEP_STORE_BACKEND overrides store.backend
//   - PATTERNSWEEP_STORE_POSTGRES_DSN overrides store.postgres.dsn
//   - PATTERNSWEEP_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Values from YAML file
//  2. Default values (defined in defaults.go) for anything unset
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	store:
//	  backend: sqlite
//	  sqlite:
//	    path: data/patterns.db
//
//	policies:
//	  - category: phd_patterns
//	    max_age_days: 180
//	  - category: business_strategy_patterns
//	    max_age_days: 60
//
//	schedule:
//	  cron: "0 3 * * 0"
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//
// # Reloading
//
// Watcher re-reads the file on change using fsnotify. Only scheduled mode uses
// it, and only policies are applied from a reloaded configuration.
package config
