package archive

import (
	"errors"
	"fmt"
)

// Archive failure kinds.
var (
	// ErrWriteFailed means the archive write failed and the source record
	// was left untouched.
	ErrWriteFailed = errors.New("archive write failed")

	// ErrSourceDeleteFailed means the archive write succeeded but the source
	// record could not be deleted.
	ErrSourceDeleteFailed = errors.New("source delete failed")
)

// ArchiveError describes a failed archival transition for one record.
type ArchiveError struct {
	Kind             error
	Category         string
	Namespace        string
	Key              string
	ArchiveNamespace string
	ArchiveKey       string
	Cause            error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("%v [category=%s, source=%s/%s, archive=%s/%s]: %v",
		e.Kind, e.Category, e.Namespace, e.Key, e.ArchiveNamespace, e.ArchiveKey, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the error's kind.
func (e *ArchiveError) Is(target error) bool {
	return target == e.Kind
}
