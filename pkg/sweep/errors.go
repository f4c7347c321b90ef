package sweep

import (
	"errors"
	"fmt"
	"strings"

	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records"
)

var (
	// ErrStoreUnavailable is wrapped by the FatalError returned when no
	// category could be listed.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrRunInProgress is returned by Scheduler.RunNow while a sweep is
	// already running.
	ErrRunInProgress = errors.New("sweep already in progress")
)

// FatalError aborts a sweep. It matches ErrStoreUnavailable and
// records.ErrStoreUnavailable via errors.Is.
type FatalError struct {
	// Categories lists the categories whose listing failed.
	Categories []string

	// Cause is the first listing failure.
	Cause error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("sweep aborted: %v for all categories (%s): %v",
		ErrStoreUnavailable, strings.Join(e.Categories, ", "), e.Cause)
}

// Unwrap returns ErrStoreUnavailable and the underlying cause.
func (e *FatalError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Cause}
}

// failureReason maps a category error to a metric label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, policy.ErrUnknownCategory):
		return "unknown_category"
	case records.IsUnavailable(err):
		return "store_unavailable"
	default:
		return "list_failed"
	}
}
