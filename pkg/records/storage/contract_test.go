package storage

import (
	"context"
	"testing"

	"mercator-hq/patternsweep/pkg/records"
)

// runStoreContract exercises the behavior every backend must share.
func runStoreContract(t *testing.T, store records.Store) {
	t.Helper()
	ctx := context.Background()
	ns := records.SourceNamespace("phd_patterns")

	t.Run("empty namespace lists empty", func(t *testing.T) {
		got, err := store.List(ctx, "patterns/nothing/successful")
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("List() returned %d records, want 0", len(got))
		}
	})

	t.Run("write then list", func(t *testing.T) {
		value := map[string]any{"created_at": "2025-01-01T00:00:00Z", "pattern": "alpha"}
		if err := store.Write(ctx, ns, "p1", value); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}

		got, err := store.List(ctx, ns)
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		rec, ok := got["p1"]
		if !ok {
			t.Fatalf("List() missing p1, got %v", got)
		}
		if rec.Key != "p1" {
			t.Errorf("Key = %q, want p1", rec.Key)
		}
		if rec.Payload["pattern"] != "alpha" {
			t.Errorf("Payload[pattern] = %v, want alpha", rec.Payload["pattern"])
		}
	})

	t.Run("write replaces", func(t *testing.T) {
		if err := store.Write(ctx, ns, "p1", map[string]any{"pattern": "beta"}); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
		got, _ := store.List(ctx, ns)
		if got["p1"].Payload["pattern"] != "beta" {
			t.Errorf("Payload[pattern] = %v, want beta", got["p1"].Payload["pattern"])
		}
	})

	t.Run("exact namespace", func(t *testing.T) {
		if err := store.Write(ctx, ns+"/nested", "deep", map[string]any{"x": "y"}); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
		got, _ := store.List(ctx, ns)
		if _, ok := got["deep"]; ok {
			t.Error("List() returned a record from a nested namespace")
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		if err := store.Delete(ctx, ns, "p1"); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}
		if err := store.Delete(ctx, ns, "p1"); err != nil {
			t.Fatalf("second Delete() failed: %v", err)
		}
		got, _ := store.List(ctx, ns)
		if _, ok := got["p1"]; ok {
			t.Error("p1 still present after Delete()")
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Errorf("Ping() failed: %v", err)
		}
	})
}
