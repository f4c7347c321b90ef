package config

import (
	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records/storage"
)

// PolicyTable builds the policy table from the configured policies.
func (c *Config) PolicyTable() (*policy.Table, error) {
	policies := make([]policy.Policy, len(c.Policies))
	for i, p := range c.Policies {
		policies[i] = policy.Policy{Category: p.Category, MaxAgeDays: p.MaxAgeDays}
	}
	return policy.New(policies)
}

// StorageConfig returns the backend configuration for storage.Open.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Backend:          c.Store.Backend,
		OperationTimeout: c.Store.OperationTimeout,
		RateLimit:        c.Store.RateLimit,
		RateBurst:        c.Store.RateBurst,
		ClaudeFlow: storage.ClaudeFlowConfig{
			Command: c.Store.ClaudeFlow.Command,
			Args:    append([]string(nil), c.Store.ClaudeFlow.Args...),
			WorkDir: c.Store.ClaudeFlow.WorkDir,
		},
		SQLite: storage.SQLiteConfig{
			Path:        c.Store.SQLite.Path,
			WALMode:     c.WALEnabled(),
			BusyTimeout: c.Store.SQLite.BusyTimeout,
		},
		Postgres: storage.PostgresConfig{
			DSN:      c.Store.Postgres.DSN,
			MaxConns: c.Store.Postgres.MaxConns,
			Table:    c.Store.Postgres.Table,
		},
	}
}
