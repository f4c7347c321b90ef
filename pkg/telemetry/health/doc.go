// Package health provides liveness, readiness and version endpoints for the
// scheduled sweeper.
//
// # Endpoints
//
//   - /health: Liveness probe - the process is running
//   - /ready: Readiness probe - the store answers and the scheduler is running
//   - /version: Build information - version, commit, build time
//
// # Usage
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("store", health.StoreCheck(store))
//	checker.RegisterCheck("scheduler", health.SchedulerCheck(scheduler))
//
//	router.Get("/health", checker.LivenessHandler())
//	router.Get("/ready", checker.ReadinessHandler())
//
// Checks run concurrently, each bounded by the checker's timeout. A failing
// check marks the system "degraded" and /ready answers 503.
package health
