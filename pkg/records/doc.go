// Package records defines the boundary between the expiry sweep and the
// external pattern memory store.
//
// # Namespaces
//
// The store is partitioned by namespace. The layout is shared with the tools
// that write pattern memory and must be reproduced exactly:
//
//   - patterns/{category}/successful - live records of a category
//   - patterns/archived/{category}   - archived records of a category
//   - config/patterns/checks         - one audit record per sweep
//
// # Store
//
// Store is the only capability the sweep needs: list a namespace, write a
// record, delete a record. Backends live in the storage subpackage.
//
// # Errors
//
// Backends report failures as *StoreError. Its Kind distinguishes
// connectivity failures (ErrStoreUnavailable) from failed writes
// (ErrStoreWrite) and failed deletes (ErrStoreDelete):
//
//	if errors.Is(err, records.ErrStoreUnavailable) {
//	    // treat the namespace as empty for this run
//	}
package records
