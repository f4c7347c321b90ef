package sweep

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mercator-hq/patternsweep/pkg/archive"
)

// DefaultNextCheckInterval is added to the check time to produce
// next_check_recommended.
const DefaultNextCheckInterval = 7 * 24 * time.Hour

// RunSummary is the audit record persisted once per sweep.
type RunSummary struct {
	CheckTime            time.Time
	CategoriesChecked    int
	ExpiredCount         int64
	ArchivedCount        int64
	NextCheckRecommended time.Time

	ValidCount         int64
	IndeterminateCount int64
	ArchiveFailedCount int64
	DeleteAnomalyCount int64
	CategoriesFailed   []string
	Duration           time.Duration
}

// FailedToArchive returns expired records that were not archived.
func (s RunSummary) FailedToArchive() int64 {
	return s.ExpiredCount - s.ArchivedCount
}

// ToMap returns the summary as a store value. Times use archive.TimeLayout.
func (s RunSummary) ToMap() map[string]any {
	failed := s.CategoriesFailed
	if failed == nil {
		failed = []string{}
	}
	return map[string]any{
		"check_time":             s.CheckTime.UTC().Format(archive.TimeLayout),
		"categories_checked":     s.CategoriesChecked,
		"expired_count":          s.ExpiredCount,
		"archived_count":         s.ArchivedCount,
		"next_check_recommended": s.NextCheckRecommended.UTC().Format(archive.TimeLayout),
		"valid_count":            s.ValidCount,
		"indeterminate_count":    s.IndeterminateCount,
		"archive_failed_count":   s.ArchiveFailedCount,
		"delete_anomaly_count":   s.DeleteAnomalyCount,
		"categories_failed":      failed,
		"duration_ms":            s.Duration.Milliseconds(),
	}
}

// MarshalJSON encodes the summary in its stored form.
func (s RunSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}

// SummaryKey returns "expiry-check-{unix millis}-{8 hex chars}".
func SummaryKey(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("expiry-check-%d-%s", now.UnixMilli(), suffix)
}
