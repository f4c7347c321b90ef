package expiry

import (
	"errors"
	"math"
	"testing"
	"time"

	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records"
)

var strategy = policy.Policy{Category: "business_strategy_patterns", MaxAgeDays: 60}

func recordCreated(t time.Time) records.Record {
	return records.Record{
		Key:     "pattern-1",
		Payload: map[string]any{"created_at": t.Format(time.RFC3339Nano), "pattern": "x"},
	}
}

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name   string
		rec    records.Record
		want   Status
		wantAg int
	}{
		{
			name:   "61 days old is expired",
			rec:    recordCreated(now.Add(-61 * day)),
			want:   Expired,
			wantAg: 61,
		},
		{
			name:   "exactly 60 days old is valid",
			rec:    recordCreated(now.Add(-60 * day)),
			want:   Valid,
			wantAg: 60,
		},
		{
			name:   "one nanosecond past the boundary is expired",
			rec:    recordCreated(now.Add(-60*day - time.Nanosecond)),
			want:   Expired,
			wantAg: 60,
		},
		{
			name:   "fresh record is valid",
			rec:    recordCreated(now.Add(-time.Hour)),
			want:   Valid,
			wantAg: 0,
		},
		{
			name: "future record is valid",
			rec:  recordCreated(now.Add(48 * time.Hour)),
			want: Valid,
		},
		{
			name: "missing created_at is indeterminate",
			rec:  records.Record{Key: "k", Payload: map[string]any{"pattern": "x"}},
			want: Indeterminate,
		},
		{
			name: "garbage created_at is indeterminate",
			rec:  records.Record{Key: "k", Payload: map[string]any{"created_at": "last tuesday"}},
			want: Indeterminate,
		},
		{
			name: "boolean created_at is indeterminate",
			rec:  records.Record{Key: "k", Payload: map[string]any{"created_at": true}},
			want: Indeterminate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.rec, strategy, now)
			if d.Status != tt.want {
				t.Fatalf("Classify() status = %v, want %v (err=%v)", d.Status, tt.want, d.Err)
			}
			if tt.want == Indeterminate {
				if d.Err == nil {
					t.Error("Indeterminate decision without Err")
				}
				return
			}
			if tt.wantAg != 0 && d.AgeDays() != tt.wantAg {
				t.Errorf("AgeDays() = %d, want %d", d.AgeDays(), tt.wantAg)
			}
		})
	}
}

func TestClassify_IndeterminateReasons(t *testing.T) {
	now := time.Now()

	d := Classify(records.Record{Key: "k", Payload: map[string]any{}}, strategy, now)
	if !errors.Is(d.Err, ErrMissingCreatedAt) {
		t.Errorf("Err = %v, want ErrMissingCreatedAt", d.Err)
	}

	d = Classify(records.Record{Key: "k", Payload: map[string]any{"created_at": "nope"}}, strategy, now)
	if !errors.Is(d.Err, ErrInvalidCreatedAt) {
		t.Errorf("Err = %v, want ErrInvalidCreatedAt", d.Err)
	}

	for _, raw := range []any{1e300, -1e300, 9.3e18, int64(math.MaxInt64), math.MinInt64} {
		d = Classify(records.Record{Key: "k", Payload: map[string]any{"created_at": raw}}, strategy, now)
		if d.Status != Indeterminate {
			t.Errorf("created_at=%v: status = %v, want indeterminate", raw, d.Status)
		}
		if !errors.Is(d.Err, ErrInvalidCreatedAt) {
			t.Errorf("created_at=%v: Err = %v, want ErrInvalidCreatedAt", raw, d.Err)
		}
	}
}

// TestClassify_AgeProperty checks the strict inequality over a range of ages.
func TestClassify_AgeProperty(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	maxAge := strategy.MaxAge()

	for minutes := -5; minutes <= 5; minutes++ {
		age := maxAge + time.Duration(minutes)*time.Minute
		d := Classify(recordCreated(now.Add(-age)), strategy, now)

		want := Valid
		if age > maxAge {
			want = Expired
		}
		if d.Status != want {
			t.Errorf("age=%v: status = %v, want %v", age, d.Status, want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  time.Time
	}{
		{"rfc3339", "2025-06-15T10:30:00Z", want},
		{"rfc3339 with millis", "2025-06-15T10:30:00.000Z", want},
		{"rfc3339 with offset", "2025-06-15T12:30:00+02:00", want},
		{"zone-less", "2025-06-15T10:30:00", want},
		{"space separated", "2025-06-15 10:30:00", want},
		{"date only", "2025-06-15", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"epoch millis float", float64(want.UnixMilli()), want},
		{"epoch millis int64", want.UnixMilli(), want},
		{"epoch millis int", int(want.UnixMilli()), want},
		{"largest js date", MaxEpochMillis, time.UnixMilli(8.64e15).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if err != nil {
				t.Fatalf("ParseTimestamp(%v) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_OutOfRange(t *testing.T) {
	for _, v := range []any{MaxEpochMillis + 1, -MaxEpochMillis - 1, 1e300, math.Inf(1), math.NaN(), int64(9_000_000_000_000_000)} {
		if _, err := ParseTimestamp(v); !errors.Is(err, ErrInvalidCreatedAt) {
			t.Errorf("ParseTimestamp(%v) error = %v, want ErrInvalidCreatedAt", v, err)
		}
	}
}

func TestStatus_String(t *testing.T) {
	if Valid.String() != "valid" || Expired.String() != "expired" || Indeterminate.String() != "indeterminate" {
		t.Errorf("unexpected status names: %s %s %s", Valid, Expired, Indeterminate)
	}
}
