package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mercator-hq/patternsweep/pkg/records"
)

// SQLiteConfig contains configuration for the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path. ":memory:" opens a private in-memory
	// database.
	Path string

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path:        "data/patterns.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements records.Store on an embedded SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	config SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the database at config.Path and initializes the schema.
func NewSQLiteStore(ctx context.Context, config SQLiteConfig) (*SQLiteStore, error) {
	if config.Path == "" {
		config.Path = DefaultSQLiteConfig().Path
	}

	logger := slog.Default().With("component", "records.storage.sqlite")

	if config.Path != ":memory:" && !strings.HasPrefix(config.Path, "file:") {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, records.NewUnavailableError("sqlite", "open", "", fmt.Errorf("create database directory: %w", err))
		}
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, records.NewUnavailableError("sqlite", "open", "", err)
	}

	// A ":memory:" database exists per connection.
	if config.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStore) initialize(ctx context.Context) error {
	if s.config.WALMode && s.config.Path != ":memory:" {
		if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			return records.NewUnavailableError("sqlite", "enable_wal", "", err)
		}
	}

	if s.config.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return records.NewUnavailableError("sqlite", "set_busy_timeout", "", err)
		}
	}

	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return records.NewUnavailableError("sqlite", "create_schema", "", err)
	}
	if _, err := s.db.ExecContext(ctx, InsertSchemaVersion, SchemaVersion); err != nil {
		return records.NewUnavailableError("sqlite", "insert_schema_version", "", err)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, GetSchemaVersion).Scan(&version); err != nil {
		return records.NewUnavailableError("sqlite", "get_schema_version", "", err)
	}
	if version != SchemaVersion {
		return records.NewUnavailableError("sqlite", "schema_version_mismatch", "",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// List returns every record stored under namespace.
func (s *SQLiteStore) List(ctx context.Context, namespace string) (map[string]records.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM records WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, records.NewUnavailableError("sqlite", "list", namespace, err)
	}
	defer rows.Close()

	out := make(map[string]records.Record)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, records.NewUnavailableError("sqlite", "scan", namespace, err)
		}
		out[key] = records.Record{Key: key, Payload: decodePayload(s.logger, namespace, key, []byte(raw))}
	}
	if err := rows.Err(); err != nil {
		return nil, records.NewUnavailableError("sqlite", "list", namespace, err)
	}

	return out, nil
}

// Write upserts value at (namespace, key).
func (s *SQLiteStore) Write(ctx context.Context, namespace, key string, value map[string]any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return records.NewWriteError("sqlite", namespace, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, namespace, key, string(raw))
	if err != nil {
		return records.NewWriteError("sqlite", namespace, key, err)
	}
	return nil
}

// Delete removes (namespace, key).
func (s *SQLiteStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE namespace = ? AND key = ?`, namespace, key)
	if err != nil {
		return records.NewDeleteError("sqlite", namespace, key, err)
	}
	return nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return records.NewUnavailableError("sqlite", "ping", "", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// decodePayload parses a stored JSON value. Values that are not JSON objects
// are wrapped under "value" so they surface as indeterminate records rather
// than failing the whole listing.
func decodePayload(logger *slog.Logger, namespace, key string, raw []byte) map[string]any {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil && payload != nil {
		return payload
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Warn("stored value is not valid JSON",
			"namespace", namespace,
			"key", key,
			"error", err,
		)
		value = string(raw)
	}
	return map[string]any{"value": value}
}
