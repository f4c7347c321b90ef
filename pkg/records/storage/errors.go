package storage

import (
	"errors"
	"fmt"
)

var errClosed = errors.New("store is closed")

// UnsupportedBackendError is returned by Open for an unknown backend name.
type UnsupportedBackendError struct {
	Backend string
}

// Error implements the error interface.
func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("unsupported store backend %q (supported: %s, %s, %s, %s)",
		e.Backend, BackendClaudeFlow, BackendSQLite, BackendPostgres, BackendMemory)
}
