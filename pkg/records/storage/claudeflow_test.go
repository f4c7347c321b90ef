package storage

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"mercator-hq/patternsweep/pkg/records"
)

type fakeCLI struct {
	output map[string]string
	err    error
	calls  [][]string
}

func (f *fakeCLI) run(_ context.Context, _ string, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.output[strings.Join(args, " ")]), nil
}

func TestClaudeFlowStore_List(t *testing.T) {
	ns := records.SourceNamespace("industry_patterns")
	cli := &fakeCLI{output: map[string]string{
		"claude-flow memory retrieve --key " + ns + "/*": `Retrieving...
{
  "p1": {"created_at": "2025-01-01T00:00:00Z", "pattern": "alpha"},
  "` + ns + `/p2": "{\"created_at\": \"2025-02-01\"}",
  "nested/p3": {"created_at": "2025-01-01"},
  "p4": 42
}`,
	}}
	store := NewClaudeFlowStore(DefaultClaudeFlowConfig(), cli.run)

	got, err := store.List(context.Background(), ns)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("List() returned %d records, want 3: %v", len(got), got)
	}
	if got["p1"].Payload["pattern"] != "alpha" {
		t.Errorf("p1 payload = %v", got["p1"].Payload)
	}
	if got["p2"].Payload["created_at"] != "2025-02-01" {
		t.Errorf("p2 payload = %v, want decoded JSON string", got["p2"].Payload)
	}
	if _, ok := got["nested/p3"]; ok {
		t.Error("nested key returned")
	}
	if _, ok := got["p4"].CreatedAt(); ok {
		t.Error("p4 should have no created_at")
	}
}

func TestClaudeFlowStore_ListEmpty(t *testing.T) {
	for _, out := range []string{"", "{}", "  \n"} {
		cli := &fakeCLI{output: map[string]string{"claude-flow memory retrieve --key ns/*": out}}
		store := NewClaudeFlowStore(DefaultClaudeFlowConfig(), cli.run)

		got, err := store.List(context.Background(), "ns")
		if err != nil {
			t.Fatalf("List(%q) failed: %v", out, err)
		}
		if len(got) != 0 {
			t.Errorf("List(%q) = %v, want empty", out, got)
		}
	}
}

func TestClaudeFlowStore_ListFailure(t *testing.T) {
	cli := &fakeCLI{err: errors.New("exit status 1")}
	store := NewClaudeFlowStore(DefaultClaudeFlowConfig(), cli.run)

	_, err := store.List(context.Background(), "ns")
	if !records.IsUnavailable(err) {
		t.Errorf("List() error = %v, want unavailable", err)
	}

	cli = &fakeCLI{output: map[string]string{"claude-flow memory retrieve --key ns/*": "not json"}}
	store = NewClaudeFlowStore(DefaultClaudeFlowConfig(), cli.run)
	if _, err := store.List(context.Background(), "ns"); !records.IsUnavailable(err) {
		t.Errorf("List() on garbage output error = %v, want unavailable", err)
	}
}

// TestClaudeFlowStore_Arguments tests that the CLI receives typed argument vectors.
func TestClaudeFlowStore_Arguments(t *testing.T) {
	cli := &fakeCLI{}
	store := NewClaudeFlowStore(DefaultClaudeFlowConfig(), cli.run)
	ctx := context.Background()

	if err := store.Write(ctx, "patterns/archived/phd_patterns", "k-archived-1", map[string]any{"note": "it's"}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if err := store.Delete(ctx, "patterns/phd_patterns/successful", "k"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	want := [][]string{
		{"npx", "claude-flow", "memory", "store", "k-archived-1", `{"note":"it's"}`, "--namespace", "patterns/archived/phd_patterns"},
		{"npx", "claude-flow", "memory", "delete", "--key", "patterns/phd_patterns/successful/k"},
	}
	if !reflect.DeepEqual(cli.calls, want) {
		t.Errorf("calls = %q, want %q", cli.calls, want)
	}
}

func TestClaudeFlowStore_WriteDeleteErrors(t *testing.T) {
	cli := &fakeCLI{err: errors.New("exit status 2")}
	store := NewClaudeFlowStore(DefaultClaudeFlowConfig(), cli.run)
	ctx := context.Background()

	if err := store.Write(ctx, "ns", "k", map[string]any{}); !errors.Is(err, records.ErrStoreWrite) {
		t.Errorf("Write() error = %v, want ErrStoreWrite", err)
	}
	if err := store.Delete(ctx, "ns", "k"); !errors.Is(err, records.ErrStoreDelete) {
		t.Errorf("Delete() error = %v, want ErrStoreDelete", err)
	}
}

func TestClaudeFlowStore_DeleteAbsentKey(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "stderr not found", err: errors.New("exit status 1: Key not found: ns/k")},
		{name: "no memory found", err: errors.New("exit status 1: No memory found for key")},
		{name: "other failure", err: errors.New("exit status 1: database is locked"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := &fakeCLI{err: tt.err}
			store := NewClaudeFlowStore(DefaultClaudeFlowConfig(), cli.run)

			err := store.Delete(context.Background(), "ns", "k")
			if tt.wantErr {
				if !errors.Is(err, records.ErrStoreDelete) {
					t.Errorf("Delete() error = %v, want ErrStoreDelete", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Delete() of absent key error = %v, want nil", err)
			}
		})
	}
}

func TestClaudeFlowStore_DeleteNotFoundOnStdout(t *testing.T) {
	run := func(context.Context, string, string, ...string) ([]byte, error) {
		return []byte("Memory entry does not exist\n"), errors.New("exit status 1")
	}
	store := NewClaudeFlowStore(DefaultClaudeFlowConfig(), run)

	if err := store.Delete(context.Background(), "ns", "k"); err != nil {
		t.Errorf("Delete() error = %v, want nil", err)
	}
}

func TestClaudeFlowStore_DeleteCanceled(t *testing.T) {
	cli := &fakeCLI{err: errors.New("context canceled: not found")}
	store := NewClaudeFlowStore(DefaultClaudeFlowConfig(), cli.run)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Delete(ctx, "ns", "k"); err == nil {
		t.Error("Delete() on canceled context returned nil")
	}
}
