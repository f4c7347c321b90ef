package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"mercator-hq/patternsweep/pkg/records"
)

// ClaudeFlowConfig configures the claude-flow CLI backend.
type ClaudeFlowConfig struct {
	// Command is the executable to run.
	// Default: "npx"
	Command string

	// Args are prepended to every memory subcommand.
	// Default: ["claude-flow"]
	Args []string

	// WorkDir is the working directory for the CLI. Empty means the current
	// directory.
	WorkDir string
}

// DefaultClaudeFlowConfig returns the default CLI invocation.
func DefaultClaudeFlowConfig() ClaudeFlowConfig {
	return ClaudeFlowConfig{
		Command: "npx",
		Args:    []string{"claude-flow"},
	}
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec. Standard error is attached to the
// returned error.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("%w: %v", ctxErr, err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

// ClaudeFlowStore implements records.Store by invoking the claude-flow memory
// CLI. Arguments are always passed as a vector, never through a shell.
type ClaudeFlowStore struct {
	config ClaudeFlowConfig
	run    Runner
	logger *slog.Logger
}

// NewClaudeFlowStore creates a CLI-backed store. A nil runner uses ExecRunner.
func NewClaudeFlowStore(config ClaudeFlowConfig, run Runner) *ClaudeFlowStore {
	if config.Command == "" {
		config = DefaultClaudeFlowConfig()
	}
	if run == nil {
		run = ExecRunner
	}
	return &ClaudeFlowStore{
		config: config,
		run:    run,
		logger: slog.Default().With("component", "records.storage.claudeflow"),
	}
}

func (s *ClaudeFlowStore) exec(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(s.config.Args)+len(args))
	full = append(full, s.config.Args...)
	full = append(full, args...)
	return s.run(ctx, s.config.WorkDir, s.config.Command, full...)
}

// List retrieves "{namespace}/*" and keeps entries that live directly in
// namespace. Empty output or "{}" is an empty namespace.
func (s *ClaudeFlowStore) List(ctx context.Context, namespace string) (map[string]records.Record, error) {
	out, err := s.exec(ctx, "memory", "retrieve", "--key", namespace+"/*")
	if err != nil {
		return nil, records.NewUnavailableError("claudeflow", "list", namespace, err)
	}

	entries, err := parseRetrieveOutput(out)
	if err != nil {
		return nil, records.NewUnavailableError("claudeflow", "list", namespace, err)
	}

	prefix := namespace + "/"
	result := make(map[string]records.Record, len(entries))
	for rawKey, rawValue := range entries {
		key := strings.TrimPrefix(rawKey, prefix)
		if key == "" || strings.Contains(key, "/") {
			continue
		}
		result[key] = records.Record{Key: key, Payload: decodePayload(s.logger, namespace, key, unquoteJSON(rawValue))}
	}

	return result, nil
}

// Write stores value as JSON under key in namespace.
func (s *ClaudeFlowStore) Write(ctx context.Context, namespace, key string, value map[string]any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return records.NewWriteError("claudeflow", namespace, key, err)
	}
	if _, err := s.exec(ctx, "memory", "store", key, string(raw), "--namespace", namespace); err != nil {
		return records.NewWriteError("claudeflow", namespace, key, err)
	}
	return nil
}

// Delete removes "{namespace}/{key}". A key the CLI reports as missing is
// treated as already deleted.
func (s *ClaudeFlowStore) Delete(ctx context.Context, namespace, key string) error {
	out, err := s.exec(ctx, "memory", "delete", "--key", namespace+"/"+key)
	if err != nil {
		if ctx.Err() == nil && isNotFound(out, err) {
			s.logger.DebugContext(ctx, "delete of absent key ignored", "namespace", namespace, "key", key)
			return nil
		}
		return records.NewDeleteError("claudeflow", namespace, key, err)
	}
	return nil
}

var notFoundMarkers = []string{"not found", "no memory found", "does not exist", "no such key"}

// isNotFound reports whether a failed CLI call failed only because the key
// was absent. ExecRunner folds stderr into err.
func isNotFound(out []byte, err error) bool {
	text := strings.ToLower(string(out) + " " + err.Error())
	for _, marker := range notFoundMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// Ping checks that the CLI can be resolved on PATH.
func (s *ClaudeFlowStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return records.NewUnavailableError("claudeflow", "ping", "", err)
	}
	if _, err := exec.LookPath(s.config.Command); err != nil {
		return records.NewUnavailableError("claudeflow", "ping", "", err)
	}
	return nil
}

// Close is a no-op; the CLI holds no connection.
func (s *ClaudeFlowStore) Close() error {
	return nil
}

var errNoJSONObject = errors.New("no JSON object in CLI output")

// parseRetrieveOutput extracts the JSON object from CLI output. The CLI may
// print banner lines before the payload.
func parseRetrieveOutput(out []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	start := bytes.IndexByte(trimmed, '{')
	end := bytes.LastIndexByte(trimmed, '}')
	if start < 0 || end < start {
		return nil, errNoJSONObject
	}

	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(trimmed[start:end+1], &entries); err != nil {
		return nil, fmt.Errorf("decode CLI output: %w", err)
	}
	return entries, nil
}

// unquoteJSON returns the inner JSON when the CLI hands back a value stored
// as a JSON-encoded string.
func unquoteJSON(raw json.RawMessage) []byte {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return raw
	}
	inner := strings.TrimSpace(s)
	if strings.HasPrefix(inner, "{") && json.Valid([]byte(inner)) {
		return []byte(inner)
	}
	return raw
}
