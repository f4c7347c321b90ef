package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:      "unsupported backend",
			mutate:    func(c *Config) { c.Store.Backend = "redis" },
			wantField: "store.backend",
		},
		{
			name:      "postgres without dsn",
			mutate:    func(c *Config) { c.Store.Backend = "postgres" },
			wantField: "store.postgres.dsn",
		},
		{
			name: "postgres bad table",
			mutate: func(c *Config) {
				c.Store.Backend = "postgres"
				c.Store.Postgres.DSN = "postgres://localhost/db"
				c.Store.Postgres.Table = "bad-name"
			},
			wantField: "store.postgres.table",
		},
		{
			name:      "negative rate limit",
			mutate:    func(c *Config) { c.Store.RateLimit = -1 },
			wantField: "store.rate_limit",
		},
		{
			name: "duplicate category",
			mutate: func(c *Config) {
				c.Policies = append(c.Policies, PolicyConfig{Category: "phd_patterns", MaxAgeDays: 5})
			},
			wantField: "policies[4].category",
		},
		{
			name:      "category with slash",
			mutate:    func(c *Config) { c.Policies[0].Category = "phd/patterns" },
			wantField: "policies[0].category",
		},
		{
			name:      "non-positive max age",
			mutate:    func(c *Config) { c.Policies[1].MaxAgeDays = 0 },
			wantField: "policies[1].max_age_days",
		},
		{
			name:      "max age overflowing a duration",
			mutate:    func(c *Config) { c.Policies[0].MaxAgeDays = 200000 },
			wantField: "policies[0].max_age_days",
		},
		{
			name:      "no policies",
			mutate:    func(c *Config) { c.Policies = nil },
			wantField: "policies",
		},
		{
			name:      "zero workers",
			mutate:    func(c *Config) { c.Sweep.Workers = 0 },
			wantField: "sweep.workers",
		},
		{
			name:      "bad cron",
			mutate:    func(c *Config) { c.Schedule.Cron = "every tuesday" },
			wantField: "schedule.cron",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "loud" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "bad log format",
			mutate:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
		{
			name:      "bad listen address",
			mutate:    func(c *Config) { c.Telemetry.Server.ListenAddress = "localhost" },
			wantField: "telemetry.server.listen_address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want field %q", verr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("Error() = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if got := multi.Error(); !strings.Contains(got, "2 errors") || !strings.Contains(got, "b: worse") {
		t.Errorf("Error() = %q", got)
	}
}
