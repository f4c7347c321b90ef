package storage

import (
	"context"
	"maps"
	"sync"

	"mercator-hq/patternsweep/pkg/records"
)

// MemoryStore implements records.Store using nested in-memory maps.
// Values are copied on the way in and out.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]map[string]any
	closed     bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string]map[string]map[string]any),
	}
}

// List returns a copy of every record in namespace.
func (s *MemoryStore) List(ctx context.Context, namespace string) (map[string]records.Record, error) {
	if err := s.check(ctx, "list", namespace); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ns := s.namespaces[namespace]
	out := make(map[string]records.Record, len(ns))
	for key, value := range ns {
		out[key] = records.Record{Key: key, Payload: maps.Clone(value)}
	}
	return out, nil
}

// Write stores a copy of value at (namespace, key).
func (s *MemoryStore) Write(ctx context.Context, namespace, key string, value map[string]any) error {
	if err := ctx.Err(); err != nil {
		return records.NewWriteError("memory", namespace, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return records.NewUnavailableError("memory", "write", namespace, errClosed)
	}
	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[string]map[string]any)
		s.namespaces[namespace] = ns
	}
	ns[key] = maps.Clone(value)
	return nil
}

// Delete removes (namespace, key). Missing keys are ignored.
func (s *MemoryStore) Delete(ctx context.Context, namespace, key string) error {
	if err := ctx.Err(); err != nil {
		return records.NewDeleteError("memory", namespace, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return records.NewUnavailableError("memory", "delete", namespace, errClosed)
	}
	if ns, ok := s.namespaces[namespace]; ok {
		delete(ns, key)
		if len(ns) == 0 {
			delete(s.namespaces, namespace)
		}
	}
	return nil
}

// Ping reports whether the store is open.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return s.check(ctx, "ping", "")
}

// Close marks the store closed. Subsequent operations fail as unavailable.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of records in namespace.
func (s *MemoryStore) Len(namespace string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.namespaces[namespace])
}

func (s *MemoryStore) check(ctx context.Context, op, namespace string) error {
	if err := ctx.Err(); err != nil {
		return records.NewUnavailableError("memory", op, namespace, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return records.NewUnavailableError("memory", op, namespace, errClosed)
	}
	return nil
}
