package sweep

import (
	"encoding/json"
)

// CategoryReport holds the outcome for one category.
type CategoryReport struct {
	Category        string `json:"category"`
	Namespace       string `json:"namespace"`
	MaxAgeDays      int    `json:"max_age_days,omitempty"`
	Listed          bool   `json:"listed"`
	Records         int    `json:"records"`
	Valid           int64  `json:"valid"`
	Expired         int64  `json:"expired"`
	Archived        int64  `json:"archived"`
	ArchiveFailed   int64  `json:"archive_failed"`
	DeleteAnomalies int64  `json:"delete_anomalies"`
	Indeterminate   int64  `json:"indeterminate"`
	Err             error  `json:"-"`
}

// Report is the in-process result of a sweep.
type Report struct {
	// RunID correlates the report with the run's log lines.
	RunID string `json:"run_id"`

	Summary    RunSummary       `json:"summary"`
	Categories []CategoryReport `json:"categories"`
	DryRun     bool             `json:"dry_run"`

	// SummaryNamespace and SummaryKey locate the persisted summary. Both are
	// empty when the summary was not written.
	SummaryNamespace string `json:"summary_namespace,omitempty"`
	SummaryKey       string `json:"summary_key,omitempty"`

	// SummaryErr is set when writing the summary failed.
	SummaryErr error `json:"-"`
}

// Failed reports whether any category or record failed.
func (r *Report) Failed() bool {
	return len(r.Summary.CategoriesFailed) > 0 || r.Summary.ArchiveFailedCount > 0 ||
		r.Summary.DeleteAnomalyCount > 0 || r.SummaryErr != nil
}

// MarshalJSON adds the error message.
func (c CategoryReport) MarshalJSON() ([]byte, error) {
	type plain CategoryReport
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(c)}
	if c.Err != nil {
		out.Error = c.Err.Error()
	}
	return json.Marshal(out)
}

// MarshalJSON adds the summary write error message.
func (r *Report) MarshalJSON() ([]byte, error) {
	type plain Report
	out := struct {
		plain
		SummaryError string `json:"summary_error,omitempty"`
	}{plain: plain(*r)}
	if r.SummaryErr != nil {
		out.SummaryError = r.SummaryErr.Error()
	}
	return json.Marshal(out)
}
