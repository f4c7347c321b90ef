package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		cfg       Config
		wantType  string
		wantError bool
	}{
		{name: "memory", cfg: Config{Backend: BackendMemory}, wantType: "*storage.MemoryStore"},
		{name: "default is claudeflow", cfg: Config{}, wantType: "*storage.ClaudeFlowStore"},
		{name: "claudeflow", cfg: Config{Backend: BackendClaudeFlow}, wantType: "*storage.ClaudeFlowStore"},
		{
			name:     "sqlite",
			cfg:      Config{Backend: BackendSQLite, SQLite: SQLiteConfig{Path: filepath.Join(t.TempDir(), "p.db")}},
			wantType: "*storage.SQLiteStore",
		},
		{
			name:     "throttled",
			cfg:      Config{Backend: BackendMemory, OperationTimeout: time.Second},
			wantType: "*storage.Throttled",
		},
		{name: "unknown", cfg: Config{Backend: "redis"}, wantError: true},
		{name: "postgres bad table", cfg: Config{Backend: BackendPostgres, Postgres: PostgresConfig{DSN: "postgres://localhost/db", Table: "bad-name"}}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantError {
				t.Fatalf("Open() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil {
				return
			}
			defer store.Close()

			if got := typeName(store); got != tt.wantType {
				t.Errorf("Open() type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestOpen_UnsupportedBackendError(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "redis"})

	var unsupported *UnsupportedBackendError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %T, want *UnsupportedBackendError", err)
	}
	if unsupported.Backend != "redis" {
		t.Errorf("Backend = %q, want redis", unsupported.Backend)
	}
}
