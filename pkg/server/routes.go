package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mercator-hq/patternsweep/pkg/records"
	"mercator-hq/patternsweep/pkg/sweep"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// sweepResponse carries the fatal error, if any, next to the report.
type sweepResponse struct {
	Report *sweep.Report `json:"report"`
	Error  string        `json:"error,omitempty"`
}

func (s *Server) handleLastSweep(w http.ResponseWriter, r *http.Request) {
	report, err := s.scheduler.LastReport()
	if report == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no sweep has run yet"})
		return
	}

	resp := sweepResponse{Report: report}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRunSweep(w http.ResponseWriter, r *http.Request) {
	// A dropped client must not abort archival halfway through a category.
	ctx := context.WithoutCancel(r.Context())

	report, err := s.scheduler.RunNow(ctx)
	switch {
	case errors.Is(err, sweep.ErrRunInProgress):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case err != nil:
		writeJSON(w, http.StatusServiceUnavailable, sweepResponse{Report: report, Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, sweepResponse{Report: report})
	}
}

type policyResponse struct {
	Category   string `json:"category"`
	MaxAgeDays int    `json:"max_age_days"`
	Namespace  string `json:"namespace"`
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	table := s.scheduler.Sweeper().Policies()
	out := make([]policyResponse, 0, table.Len())
	for _, p := range table.Policies() {
		out = append(out, policyResponse{
			Category:   p.Category,
			MaxAgeDays: p.MaxAgeDays,
			Namespace:  records.SourceNamespace(p.Category),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
