package records

import (
	"context"
	"maps"
)

// Namespace layout shared with every producer and consumer of pattern memory.
const (
	// ChecksNamespace receives one audit record per sweep.
	ChecksNamespace = "config/patterns/checks"

	sourcePrefix  = "patterns/"
	sourceSuffix  = "/successful"
	archivePrefix = "patterns/archived/"
)

// SourceNamespace returns the namespace holding live records of a category.
func SourceNamespace(category string) string {
	return sourcePrefix + category + sourceSuffix
}

// ArchiveNamespace returns the namespace archived records of a category are
// moved to.
func ArchiveNamespace(category string) string {
	return archivePrefix + category
}

// CreatedAtField is the payload field carrying a record's creation time.
const CreatedAtField = "created_at"

// Record is a single entry read from the store.
type Record struct {
	// Key is unique within the record's namespace.
	Key string `json:"key"`

	// Payload is the opaque record body.
	Payload map[string]any `json:"payload"`
}

// CreatedAt returns the raw created_at value and whether it is present.
// A nil value counts as absent.
func (r Record) CreatedAt() (any, bool) {
	v, ok := r.Payload[CreatedAtField]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Clone returns a copy of the record with a shallow copy of its payload.
func (r Record) Clone() Record {
	return Record{Key: r.Key, Payload: maps.Clone(r.Payload)}
}

// Store is the boundary to the external namespaced key-value store.
// Implementations must be safe for concurrent use. The store offers no
// atomic move; callers order write-before-delete themselves.
type Store interface {
	// List returns every record in namespace keyed by record key.
	// An empty namespace yields an empty map and no error; connectivity
	// failures return a StoreError of kind ErrStoreUnavailable.
	List(ctx context.Context, namespace string) (map[string]Record, error)

	// Write durably persists value at (namespace, key), replacing any
	// existing value. Failures return a StoreError of kind ErrStoreWrite.
	Write(ctx context.Context, namespace, key string, value map[string]any) error

	// Delete removes (namespace, key). Deleting an absent key is not an
	// error. Failures return a StoreError of kind ErrStoreDelete.
	Delete(ctx context.Context, namespace, key string) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
