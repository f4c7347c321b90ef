package archive

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records"
)

// Provenance fields added to every archived record.
const (
	FieldArchived          = "archived"
	FieldArchivedAt        = "archived_at"
	FieldOriginalNamespace = "original_namespace"
	FieldOriginalKey       = "original_key"
	FieldExpiryReason      = "expiry_reason"
)

// TimeLayout formats archive timestamps as UTC with millisecond precision,
// e.g. "2026-05-01T09:00:00.000Z".
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Result is the archive location of a record.
type Result struct {
	Namespace string
	Key       string
}

// String returns "namespace/key".
func (r Result) String() string {
	return r.Namespace + "/" + r.Key
}

// KeyFunc generates an archive key for a source key at time now.
type KeyFunc func(key string, now time.Time) string

// Archiver performs archival transitions against a store.
type Archiver struct {
	store   records.Store
	keyFunc KeyFunc
	logger  *slog.Logger
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithKeyFunc overrides archive key generation.
func WithKeyFunc(fn KeyFunc) Option {
	return func(a *Archiver) {
		a.keyFunc = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archiver) {
		a.logger = logger.With("component", "archive")
	}
}

// NewArchiver creates an Archiver writing to store.
func NewArchiver(store records.Store, opts ...Option) *Archiver {
	a := &Archiver{
		store:   store,
		keyFunc: DefaultKey,
		logger:  slog.Default().With("component", "archive"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultKey returns "{key}-archived-{unix millis}-{8 hex chars}".
func DefaultKey(key string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-archived-%d-%s", key, now.UnixMilli(), suffix)
}

// ExpiryReason formats the human-readable reason stored on archived records.
func ExpiryReason(p policy.Policy) string {
	return fmt.Sprintf("Exceeded max age of %d days", p.MaxAgeDays)
}

// BuildRecord returns the archived representation of rec. The source payload
// is copied, never modified.
func BuildRecord(namespace string, rec records.Record, p policy.Policy, archivedAt time.Time) map[string]any {
	out := make(map[string]any, len(rec.Payload)+5)
	maps.Copy(out, rec.Payload)
	out[FieldArchived] = true
	out[FieldArchivedAt] = archivedAt.UTC().Format(TimeLayout)
	out[FieldOriginalNamespace] = namespace
	out[FieldOriginalKey] = rec.Key
	out[FieldExpiryReason] = ExpiryReason(p)
	return out
}

// Archive moves the expired record rec from (namespace, key) into the
// category's archive namespace.
//
// On ErrWriteFailed the returned Result is empty and the source is untouched.
// On ErrSourceDeleteFailed the Result holds the archive location.
func (a *Archiver) Archive(ctx context.Context, category, namespace, key string, rec records.Record, p policy.Policy, now time.Time) (Result, error) {
	if rec.Key == "" {
		rec.Key = key
	}

	archived := BuildRecord(namespace, rec, p, now)
	loc := Result{
		Namespace: records.ArchiveNamespace(category),
		Key:       a.keyFunc(key, now),
	}

	if err := a.store.Write(ctx, loc.Namespace, loc.Key, archived); err != nil {
		return Result{}, &ArchiveError{
			Kind:             ErrWriteFailed,
			Category:         category,
			Namespace:        namespace,
			Key:              key,
			ArchiveNamespace: loc.Namespace,
			ArchiveKey:       loc.Key,
			Cause:            err,
		}
	}

	if err := a.store.Delete(ctx, namespace, key); err != nil {
		return loc, &ArchiveError{
			Kind:             ErrSourceDeleteFailed,
			Category:         category,
			Namespace:        namespace,
			Key:              key,
			ArchiveNamespace: loc.Namespace,
			ArchiveKey:       loc.Key,
			Cause:            err,
		}
	}

	a.logger.DebugContext(ctx, "record archived",
		"category", category,
		"key", key,
		"archive", loc.String(),
	)

	return loc, nil
}
