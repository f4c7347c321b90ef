package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// createTempDB creates a temporary SQLite store for testing.
func createTempDB(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "patterns.db")
	store, err := NewSQLiteStore(context.Background(), SQLiteConfig{
		Path:        dbPath,
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, dbPath
}

// TestSQLiteStore_Initialize tests database initialization.
func TestSQLiteStore_Initialize(t *testing.T) {
	_, dbPath := createTempDB(t)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

// TestSQLiteStore_CreatesParentDirectory tests that a missing data directory
// is created on open.
func TestSQLiteStore_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "nested", "patterns.db")

	store, err := NewSQLiteStore(context.Background(), SQLiteConfig{Path: dbPath, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, _ := createTempDB(t)
	runStoreContract(t, store)
}

// TestSQLiteStore_Reopen tests that records survive a reopen.
func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "patterns.db")

	store, err := NewSQLiteStore(ctx, SQLiteConfig{Path: dbPath})
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	if err := store.Write(ctx, "ns", "k", map[string]any{"created_at": float64(1700000000000)}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	store.Close()

	store, err = NewSQLiteStore(ctx, SQLiteConfig{Path: dbPath})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	got, err := store.List(ctx, "ns")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if got["k"].Payload["created_at"] != float64(1700000000000) {
		t.Errorf("created_at = %v, want 1700000000000", got["k"].Payload["created_at"])
	}
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	defer store.Close()

	runStoreContract(t, store)
}
