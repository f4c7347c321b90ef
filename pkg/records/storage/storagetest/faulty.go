// Package storagetest provides store wrappers for tests.
package storagetest

import (
	"context"
	"errors"
	"sync"

	"mercator-hq/patternsweep/pkg/records"
)

// ErrInjected is the cause of every injected failure.
var ErrInjected = errors.New("injected failure")

// Call is one recorded store operation.
type Call struct {
	Op        string
	Namespace string
	Key       string
}

// FaultyStore wraps a records.Store and fails selected operations.
// Hooks return true to fail the operation.
type FaultyStore struct {
	records.Store

	FailList   func(namespace string) bool
	FailWrite  func(namespace, key string) bool
	FailDelete func(namespace, key string) bool
	FailPing   bool

	mu    sync.Mutex
	calls []Call
}

// Wrap returns a FaultyStore around inner with no faults configured.
func Wrap(inner records.Store) *FaultyStore {
	return &FaultyStore{Store: inner}
}

func (f *FaultyStore) record(op, namespace, key string) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Op: op, Namespace: namespace, Key: key})
	f.mu.Unlock()
}

// Calls returns the operations seen so far in order.
func (f *FaultyStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Count returns how many times op was called.
func (f *FaultyStore) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// List fails with ErrStoreUnavailable when FailList matches.
func (f *FaultyStore) List(ctx context.Context, namespace string) (map[string]records.Record, error) {
	f.record("list", namespace, "")
	if f.FailList != nil && f.FailList(namespace) {
		return nil, records.NewUnavailableError("faulty", "list", namespace, ErrInjected)
	}
	return f.Store.List(ctx, namespace)
}

// Write fails with ErrStoreWrite when FailWrite matches.
func (f *FaultyStore) Write(ctx context.Context, namespace, key string, value map[string]any) error {
	f.record("write", namespace, key)
	if f.FailWrite != nil && f.FailWrite(namespace, key) {
		return records.NewWriteError("faulty", namespace, key, ErrInjected)
	}
	return f.Store.Write(ctx, namespace, key, value)
}

// Delete fails with ErrStoreDelete when FailDelete matches.
func (f *FaultyStore) Delete(ctx context.Context, namespace, key string) error {
	f.record("delete", namespace, key)
	if f.FailDelete != nil && f.FailDelete(namespace, key) {
		return records.NewDeleteError("faulty", namespace, key, ErrInjected)
	}
	return f.Store.Delete(ctx, namespace, key)
}

// Ping fails with ErrStoreUnavailable when FailPing is set.
func (f *FaultyStore) Ping(ctx context.Context) error {
	f.record("ping", "", "")
	if f.FailPing {
		return records.NewUnavailableError("faulty", "ping", "", ErrInjected)
	}
	return f.Store.Ping(ctx)
}

// Namespace matches a single namespace.
func Namespace(ns string) func(string) bool {
	return func(namespace string) bool { return namespace == ns }
}

// Always matches every namespace.
func Always(string) bool { return true }
