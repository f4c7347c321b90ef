// Package storage provides backends for the records.Store interface.
//
// # Backends
//
//   - ClaudeFlow: shells out to the claude-flow memory CLI (default)
//   - SQLite: embedded database for single-node deployments
//   - Postgres: shared database via pgxpool
//   - Memory: in-memory storage for tests and dry runs
//
// Every backend uses exact namespace semantics: List("patterns/a/successful")
// never returns records from a nested namespace.
//
// # Throttling
//
// Open wraps the selected backend in a Throttled store when a rate limit or
// an operation timeout is configured. The rate limiter is shared by all
// operations, and an expired operation deadline is reported as
// records.ErrStoreUnavailable.
//
// # Basic Usage
//
//	store, err := storage.Open(ctx, storage.Config{
//	    Backend: storage.BackendSQLite,
//	    SQLite:  storage.SQLiteConfig{Path: "data/patterns.db"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	recs, err := store.List(ctx, records.SourceNamespace("phd_patterns"))
package storage
