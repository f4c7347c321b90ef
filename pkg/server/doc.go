// Package server provides the HTTP status server for scheduled sweeps.
//
// Routes:
//   - GET  /health              liveness
//   - GET  /ready               readiness (store ping, scheduler state)
//   - GET  /version             build information
//   - GET  /metrics             Prometheus exposition (when metrics are enabled)
//   - GET  /api/v1/sweeps/last  report of the most recent sweep
//   - POST /api/v1/sweeps       run a sweep now
//   - GET  /api/v1/policies     active retention policies
package server
