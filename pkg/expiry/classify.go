package expiry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records"
)

// Status is the outcome of classifying a record.
type Status int

const (
	// Valid records are within their policy's maximum age.
	Valid Status = iota
	// Expired records are strictly older than their policy's maximum age.
	Expired
	// Indeterminate records have no usable creation time.
	Indeterminate
)

// String returns the lowercase status name used in logs and metrics.
func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Expired:
		return "expired"
	case Indeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

var (
	// ErrMissingCreatedAt is reported for records without created_at.
	ErrMissingCreatedAt = errors.New("missing created_at")
	// ErrInvalidCreatedAt is reported for records whose created_at cannot be parsed.
	ErrInvalidCreatedAt = errors.New("invalid created_at")
)

// Decision is the result of Classify.
type Decision struct {
	Status    Status
	CreatedAt time.Time
	Age       time.Duration

	// Err explains an Indeterminate decision.
	Err error
}

// AgeDays returns the age in whole days, rounded down.
func (d Decision) AgeDays() int {
	return int(math.Floor(d.Age.Hours() / 24))
}

// Classify decides whether rec is expired under pol at time now.
func Classify(rec records.Record, pol policy.Policy, now time.Time) Decision {
	raw, ok := rec.CreatedAt()
	if !ok {
		return Decision{Status: Indeterminate, Err: ErrMissingCreatedAt}
	}

	createdAt, err := ParseTimestamp(raw)
	if err != nil {
		return Decision{Status: Indeterminate, Err: err}
	}

	age := now.Sub(createdAt)
	status := Valid
	if age > pol.MaxAge() {
		status = Expired
	}

	return Decision{
		Status:    status,
		CreatedAt: createdAt,
		Age:       age,
	}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts a created_at value into a time.
func ParseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidCreatedAt)
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCreatedAt, t)
	case float64:
		return fromMillis(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCreatedAt, t.String())
		}
		return fromMillis(f)
	case int:
		return fromMillis(float64(t))
	case int64:
		return fromMillis(float64(t))
	case time.Time:
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidCreatedAt, v)
	}
}

// MaxEpochMillis bounds epoch-millisecond timestamps to the range a
// JavaScript Date can represent (±100,000,000 days).
const MaxEpochMillis = 8.64e15

func fromMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidCreatedAt, ms)
	}
	if ms > MaxEpochMillis || ms < -MaxEpochMillis {
		return time.Time{}, fmt.Errorf("%w: epoch millis %v out of range", ErrInvalidCreatedAt, ms)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
