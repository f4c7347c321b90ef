package records

import (
	"context"
	"errors"
	"fmt"
)

// Store failure kinds. Every StoreError matches exactly one of these via
// errors.Is.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreWrite       = errors.New("store write failed")
	ErrStoreDelete      = errors.New("store delete failed")
)

// StoreError represents a failed operation against a store backend.
type StoreError struct {
	Backend   string // Backend type ("sqlite", "postgres", "claudeflow", "memory")
	Operation string // Operation that failed ("list", "write", "delete", "ping")
	Namespace string
	Key       string
	Kind      error // One of ErrStoreUnavailable, ErrStoreWrite, ErrStoreDelete
	Cause     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	loc := e.Namespace
	if e.Key != "" {
		loc = e.Namespace + "/" + e.Key
	}
	if loc != "" {
		return fmt.Sprintf("%v [backend=%s, operation=%s, location=%s]: %v", e.Kind, e.Backend, e.Operation, loc, e.Cause)
	}
	return fmt.Sprintf("%v [backend=%s, operation=%s]: %v", e.Kind, e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the error's kind.
func (e *StoreError) Is(target error) bool {
	return target == e.Kind
}

// NewUnavailableError creates a StoreError of kind ErrStoreUnavailable.
func NewUnavailableError(backend, operation, namespace string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Namespace: namespace,
		Kind:      ErrStoreUnavailable,
		Cause:     cause,
	}
}

// NewWriteError creates a StoreError of kind ErrStoreWrite. Deadline and
// cancellation causes are reported as ErrStoreUnavailable instead.
func NewWriteError(backend, namespace, key string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: "write",
		Namespace: namespace,
		Key:       key,
		Kind:      kindFor(cause, ErrStoreWrite),
		Cause:     cause,
	}
}

// NewDeleteError creates a StoreError of kind ErrStoreDelete. Deadline and
// cancellation causes are reported as ErrStoreUnavailable instead.
func NewDeleteError(backend, namespace, key string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: "delete",
		Namespace: namespace,
		Key:       key,
		Kind:      kindFor(cause, ErrStoreDelete),
		Cause:     cause,
	}
}

func kindFor(cause, fallback error) error {
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
		return ErrStoreUnavailable
	}
	return fallback
}

// IsUnavailable reports whether err is a connectivity failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
