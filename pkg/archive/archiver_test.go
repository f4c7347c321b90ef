package archive

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records"
	"mercator-hq/patternsweep/pkg/records/storage"
	"mercator-hq/patternsweep/pkg/records/storage/storagetest"
)

var research = policy.Policy{Category: "business_research_patterns", MaxAgeDays: 90}

func seed(t *testing.T, store records.Store, ns, key string) records.Record {
	t.Helper()
	payload := map[string]any{"created_at": "2025-01-01T00:00:00Z", "pattern": "funnel"}
	if err := store.Write(context.Background(), ns, key, payload); err != nil {
		t.Fatalf("seed Write() failed: %v", err)
	}
	return records.Record{Key: key, Payload: payload}
}

func TestBuildRecord(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	src := records.Record{Key: "k1", Payload: map[string]any{"created_at": "2025-01-01", "pattern": "funnel"}}

	got := BuildRecord("patterns/business_research_patterns/successful", src, research, now)

	want := map[string]any{
		"created_at":         "2025-01-01",
		"pattern":            "funnel",
		"archived":           true,
		"archived_at":        "2026-05-01T09:00:00.000Z",
		"original_namespace": "patterns/business_research_patterns/successful",
		"original_key":       "k1",
		"expiry_reason":      "Exceeded max age of 90 days",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if len(got) != len(want) {
		t.Errorf("len = %d, want %d", len(got), len(want))
	}

	if _, ok := src.Payload[FieldArchived]; ok {
		t.Error("BuildRecord mutated the source payload")
	}
}

func TestDefaultKey(t *testing.T) {
	now := time.UnixMilli(1767225600000)
	pattern := regexp.MustCompile(`^k1-archived-1767225600000-[0-9a-f]{8}$`)

	a := DefaultKey("k1", now)
	b := DefaultKey("k1", now)
	if !pattern.MatchString(a) {
		t.Errorf("DefaultKey() = %q, does not match %s", a, pattern)
	}
	if a == b {
		t.Errorf("DefaultKey() returned the same key twice: %q", a)
	}
}

func TestArchive_Success(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	src := records.SourceNamespace(research.Category)
	rec := seed(t, store, src, "k1")

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	a := NewArchiver(store, WithKeyFunc(func(key string, _ time.Time) string { return key + "-archived-fixed" }))

	res, err := a.Archive(ctx, research.Category, src, "k1", rec, research, now)
	if err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}
	if res.Namespace != "patterns/archived/business_research_patterns" || res.Key != "k1-archived-fixed" {
		t.Errorf("Archive() = %v", res)
	}

	live, _ := store.List(ctx, src)
	if len(live) != 0 {
		t.Errorf("source still holds %d records", len(live))
	}
	archived, _ := store.List(ctx, res.Namespace)
	got, ok := archived["k1-archived-fixed"]
	if !ok {
		t.Fatal("archived record not found")
	}
	if got.Payload[FieldOriginalKey] != "k1" || got.Payload[FieldOriginalNamespace] != src {
		t.Errorf("provenance = %v", got.Payload)
	}
	if got.Payload["pattern"] != "funnel" {
		t.Errorf("payload not preserved: %v", got.Payload)
	}
}

// TestArchive_WriteFailed tests that the source is untouched when the archive
// write fails.
func TestArchive_WriteFailed(t *testing.T) {
	ctx := context.Background()
	store := storagetest.Wrap(storage.NewMemoryStore())
	src := records.SourceNamespace(research.Category)
	rec := seed(t, store, src, "k1")
	store.FailWrite = func(ns, _ string) bool { return ns == records.ArchiveNamespace(research.Category) }

	res, err := NewArchiver(store).Archive(ctx, research.Category, src, "k1", rec, research, time.Now())
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("Archive() error = %v, want ErrWriteFailed", err)
	}
	if !errors.Is(err, records.ErrStoreWrite) {
		t.Errorf("cause not preserved: %v", err)
	}
	if res != (Result{}) {
		t.Errorf("Archive() result = %v, want empty", res)
	}
	if store.Count("delete") != 0 {
		t.Error("Delete() called after failed write")
	}

	live, _ := store.List(ctx, src)
	if _, ok := live["k1"]; !ok {
		t.Error("source record removed after failed write")
	}
}

// TestArchive_SourceDeleteFailed tests that a failed delete still reports the
// archive location.
func TestArchive_SourceDeleteFailed(t *testing.T) {
	ctx := context.Background()
	store := storagetest.Wrap(storage.NewMemoryStore())
	src := records.SourceNamespace(research.Category)
	rec := seed(t, store, src, "k1")
	store.FailDelete = func(string, string) bool { return true }

	res, err := NewArchiver(store).Archive(ctx, research.Category, src, "k1", rec, research, time.Now())
	if !errors.Is(err, ErrSourceDeleteFailed) {
		t.Fatalf("Archive() error = %v, want ErrSourceDeleteFailed", err)
	}

	var archiveErr *ArchiveError
	if !errors.As(err, &archiveErr) {
		t.Fatalf("error = %T, want *ArchiveError", err)
	}
	if archiveErr.ArchiveKey != res.Key || res.Key == "" {
		t.Errorf("ArchiveKey = %q, result key = %q", archiveErr.ArchiveKey, res.Key)
	}

	archived, _ := store.List(ctx, res.Namespace)
	if _, ok := archived[res.Key]; !ok {
		t.Error("archived record missing after delete failure")
	}
}

// TestArchive_WriteBeforeDelete tests operation ordering.
func TestArchive_WriteBeforeDelete(t *testing.T) {
	ctx := context.Background()
	store := storagetest.Wrap(storage.NewMemoryStore())
	src := records.SourceNamespace(research.Category)
	rec := seed(t, store, src, "k1")

	if _, err := NewArchiver(store).Archive(ctx, research.Category, src, "k1", rec, research, time.Now()); err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}

	calls := store.Calls()
	// calls[0] is the seed write.
	if len(calls) != 3 || calls[1].Op != "write" || calls[2].Op != "delete" {
		t.Fatalf("calls = %+v, want seed write, archive write, delete", calls)
	}
	if calls[2].Namespace != src || calls[2].Key != "k1" {
		t.Errorf("delete target = %s/%s", calls[2].Namespace, calls[2].Key)
	}
}

func TestExpiryReason(t *testing.T) {
	if got := ExpiryReason(policy.Policy{Category: "x", MaxAgeDays: 180}); got != "Exceeded max age of 180 days" {
		t.Errorf("ExpiryReason() = %q", got)
	}
}
