package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mercator-hq/patternsweep/pkg/config"
	"mercator-hq/patternsweep/pkg/sweep"
	"mercator-hq/patternsweep/pkg/telemetry/health"
	"mercator-hq/patternsweep/pkg/telemetry/metrics"
)

// BuildInfo identifies the running binary on /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Server is the status server for a sweep scheduler.
type Server struct {
	config    config.ServerConfig
	scheduler *sweep.Scheduler
	checker   *health.Checker
	collector *metrics.Collector
	build     BuildInfo
	logger    *slog.Logger

	router     chi.Router
	httpServer *http.Server

	mu        sync.RWMutex
	isRunning bool
}

// New creates a status server. collector may be nil, in which case /metrics
// is not mounted.
func New(cfg config.ServerConfig, scheduler *sweep.Scheduler, checker *health.Checker, collector *metrics.Collector, build BuildInfo) *Server {
	s := &Server{
		config:    cfg,
		scheduler: scheduler,
		checker:   checker,
		collector: collector,
		build:     build,
		logger:    slog.Default().With("component", "server"),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on the configured address and blocks until ctx is cancelled
// or the listener fails. Cancellation triggers a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting status server", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultServerShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.isRunning = false
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("status server stopped")
	return nil
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/health", s.checker.LivenessHandler())
	r.Get("/ready", s.checker.ReadinessHandler())
	r.Get("/version", health.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildTime))
	if s.collector.Enabled() {
		r.Handle("/metrics", s.collector.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sweeps/last", s.handleLastSweep)
		r.Post("/sweeps", s.handleRunSweep)
		r.Get("/policies", s.handlePolicies)
	})

	s.router = r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
