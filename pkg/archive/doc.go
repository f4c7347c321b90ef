// Package archive moves expired records out of their live namespace.
//
// # Transition
//
// The store has no atomic move, so Archiver.Archive performs a strictly
// ordered write-then-delete for each record:
//
//  1. Build the archived record: the original payload plus archived,
//     archived_at, original_namespace, original_key and expiry_reason.
//  2. Write it to patterns/archived/{category} under a unique key.
//  3. Only if the write succeeded, delete the source record.
//
// A failed write leaves the source untouched and returns an ArchiveError of
// kind ErrWriteFailed. A failed delete returns the archive location together
// with an ArchiveError of kind ErrSourceDeleteFailed: the data is safe in the
// archive but may also still exist in the source namespace until the next
// sweep removes it.
//
// # Archive Keys
//
// Archive keys are "{key}-archived-{unix millis}-{random suffix}" so that
// concurrent sweeps archiving the same record never overwrite each other.
package archive
