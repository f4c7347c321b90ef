package storage

import (
	"context"
	"time"

	"mercator-hq/patternsweep/pkg/records"
)

// Backend names accepted by Open.
const (
	BackendClaudeFlow = "claudeflow"
	BackendSQLite     = "sqlite"
	BackendPostgres   = "postgres"
	BackendMemory     = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Backend          string
	OperationTimeout time.Duration
	RateLimit        float64
	RateBurst        int

	ClaudeFlow ClaudeFlowConfig
	SQLite     SQLiteConfig
	Postgres   PostgresConfig
}

// Open creates the configured backend, wrapped in a Throttled store when a
// rate limit or operation timeout is set.
func Open(ctx context.Context, cfg Config) (records.Store, error) {
	var (
		store records.Store
		err   error
	)

	switch cfg.Backend {
	case BackendClaudeFlow, "":
		store = NewClaudeFlowStore(cfg.ClaudeFlow, nil)
	case BackendSQLite:
		store, err = NewSQLiteStore(ctx, cfg.SQLite)
	case BackendPostgres:
		store, err = NewPostgresStore(ctx, cfg.Postgres)
	case BackendMemory:
		store = NewMemoryStore()
	default:
		return nil, &UnsupportedBackendError{Backend: cfg.Backend}
	}
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit > 0 || cfg.OperationTimeout > 0 {
		backend := cfg.Backend
		if backend == "" {
			backend = BackendClaudeFlow
		}
		store = NewThrottled(store, backend, cfg.RateLimit, cfg.RateBurst, cfg.OperationTimeout)
	}

	return store, nil
}
