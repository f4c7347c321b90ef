package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"

	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records/storage"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "store.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// collecting every failed rule, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateStore(&cfg.Store)...)
	errs = append(errs, validatePolicies(cfg.Policies)...)
	errs = append(errs, validateSweep(&cfg.Sweep)...)
	errs = append(errs, validateSchedule(&cfg.Schedule)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateStore(cfg *StoreConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case storage.BackendClaudeFlow:
		if cfg.ClaudeFlow.Command == "" {
			errs = append(errs, FieldError{Field: "store.claudeflow.command", Message: "command is required"})
		}
	case storage.BackendSQLite:
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "store.sqlite.path", Message: "path is required"})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{Field: "store.sqlite.busy_timeout", Message: "busy timeout must be non-negative"})
		}
	case storage.BackendPostgres:
		if cfg.Postgres.DSN == "" {
			errs = append(errs, FieldError{Field: "store.postgres.dsn", Message: "dsn is required for the postgres backend"})
		}
		if cfg.Postgres.MaxConns < 0 {
			errs = append(errs, FieldError{Field: "store.postgres.max_conns", Message: "max conns must be non-negative"})
		}
		if !storage.ValidTableName(cfg.Postgres.Table) {
			errs = append(errs, FieldError{Field: "store.postgres.table", Message: fmt.Sprintf("invalid table name %q", cfg.Postgres.Table)})
		}
	case storage.BackendMemory:
	default:
		errs = append(errs, FieldError{
			Field:   "store.backend",
			Message: fmt.Sprintf("unsupported backend %q (must be claudeflow, sqlite, postgres or memory)", cfg.Backend),
		})
	}

	if cfg.OperationTimeout < 0 {
		errs = append(errs, FieldError{Field: "store.operation_timeout", Message: "operation timeout must be non-negative"})
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, FieldError{Field: "store.rate_limit", Message: "rate limit must be non-negative"})
	}
	if cfg.RateBurst < 1 {
		errs = append(errs, FieldError{Field: "store.rate_burst", Message: "rate burst must be at least 1"})
	}

	return errs
}

func validatePolicies(policies []PolicyConfig) []FieldError {
	var errs []FieldError

	if len(policies) == 0 {
		return append(errs, FieldError{Field: "policies", Message: "at least one policy is required"})
	}

	seen := make(map[string]bool, len(policies))
	for i, p := range policies {
		field := fmt.Sprintf("policies[%d]", i)
		if p.Category == "" {
			errs = append(errs, FieldError{Field: field + ".category", Message: "category is required"})
		} else if strings.Contains(p.Category, "/") {
			errs = append(errs, FieldError{Field: field + ".category", Message: fmt.Sprintf("category %q must not contain '/'", p.Category)})
		}
		if seen[p.Category] {
			errs = append(errs, FieldError{Field: field + ".category", Message: fmt.Sprintf("duplicate category %q", p.Category)})
		}
		seen[p.Category] = true
		if p.MaxAgeDays <= 0 {
			errs = append(errs, FieldError{Field: field + ".max_age_days", Message: "max age must be a positive number of days"})
		} else if p.MaxAgeDays > policy.MaxAgeDaysLimit {
			errs = append(errs, FieldError{Field: field + ".max_age_days", Message: fmt.Sprintf("max age must not exceed %d days", policy.MaxAgeDaysLimit)})
		}
	}

	return errs
}

func validateSweep(cfg *SweepConfig) []FieldError {
	var errs []FieldError

	if cfg.Workers < 1 {
		errs = append(errs, FieldError{Field: "sweep.workers", Message: "workers must be at least 1"})
	}
	if cfg.RecordWorkers < 1 {
		errs = append(errs, FieldError{Field: "sweep.record_workers", Message: "record workers must be at least 1"})
	}
	if cfg.NextCheckInterval <= 0 {
		errs = append(errs, FieldError{Field: "sweep.next_check_interval", Message: "next check interval must be positive"})
	}

	return errs
}

func validateSchedule(cfg *ScheduleConfig) []FieldError {
	var errs []FieldError

	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		errs = append(errs, FieldError{Field: "schedule.cron", Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Cron, err)})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be text or json)", cfg.Logging.Format),
		})
	}

	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "telemetry.server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.Server.ListenAddress, err),
		})
	}
	if cfg.Server.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "telemetry.server.shutdown_timeout", Message: "shutdown timeout must be non-negative"})
	}

	return errs
}
