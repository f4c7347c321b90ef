// Package expiry decides whether a record has outlived its category policy.
//
// Classify is a pure function of the record, the policy and the evaluation
// time. It performs no I/O:
//
//	d := expiry.Classify(rec, pol, now)
//	switch d.Status {
//	case expiry.Expired:
//	    // archive it
//	case expiry.Indeterminate:
//	    // no usable created_at: log and skip
//	}
//
// A record is Expired only when its age strictly exceeds the policy's
// maximum age; a record exactly at the boundary is Valid.
//
// # Timestamps
//
// created_at may be an RFC 3339 string (with or without fractional seconds),
// a zone-less "2006-01-02T15:04:05" string (read as UTC), a date-only
// "2006-01-02" string (UTC midnight), or a number of milliseconds since the
// Unix epoch.
package expiry
