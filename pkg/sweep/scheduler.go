package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleConfig configures a Scheduler.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression.
	// Example: "0 3 * * 0" (Sundays at 3 AM)
	Cron string

	// RunOnStart triggers one sweep as soon as the scheduler starts.
	RunOnStart bool
}

// Scheduler runs a Sweeper on a cron schedule. Runs never overlap.
type Scheduler struct {
	sweeper *Sweeper
	config  ScheduleConfig
	cron    *cron.Cron
	logger  *slog.Logger

	mu      sync.Mutex
	running bool

	runMu      sync.Mutex
	inProgress bool
	lastReport *Report
	lastErr    error
	runs       sync.WaitGroup
}

// NewScheduler creates a scheduler for sweeper.
func NewScheduler(sweeper *Sweeper, config ScheduleConfig) *Scheduler {
	return &Scheduler{
		sweeper: sweeper,
		config:  config,
		cron:    cron.New(),
		logger:  slog.Default().With("component", "sweep.scheduler"),
	}
}

// Sweeper returns the scheduled sweeper.
func (s *Scheduler) Sweeper() *Sweeper {
	return s.sweeper
}

// Start begins scheduled sweeps. The scheduler stops when ctx is cancelled.
//
// Common cron expressions:
//   - "0 3 * * 0"    - Weekly on Sunday at 3 AM
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if s.config.Cron == "" {
		return fmt.Errorf("sweep schedule not configured")
	}
	if _, err := cron.ParseStandard(s.config.Cron); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Cron, err)
	}

	if _, err := s.cron.AddFunc(s.config.Cron, func() {
		s.runScheduled(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("sweep scheduler started", "schedule", s.config.Cron)

	if s.config.RunOnStart {
		s.runs.Add(1)
		go func() {
			defer s.runs.Done()
			s.runScheduled(ctx)
		}()
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runScheduled(ctx context.Context) {
	if _, err := s.RunNow(ctx); errors.Is(err, ErrRunInProgress) {
		s.logger.Warn("skipping scheduled sweep, previous run still in progress")
	}
}

// RunNow runs a sweep immediately. It returns ErrRunInProgress if a sweep is
// already running.
func (s *Scheduler) RunNow(ctx context.Context) (*Report, error) {
	s.runMu.Lock()
	if s.inProgress {
		s.runMu.Unlock()
		return nil, ErrRunInProgress
	}
	s.inProgress = true
	s.runMu.Unlock()

	report, err := s.sweeper.Run(ctx)

	s.runMu.Lock()
	s.inProgress = false
	s.lastReport = report
	s.lastErr = err
	s.runMu.Unlock()

	if err != nil {
		s.logger.Error("scheduled sweep failed", "error", err)
	}
	return report, err
}

// LastReport returns the report and error of the most recent run. The report
// is nil before the first run.
func (s *Scheduler) LastReport() (*Report, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.lastReport, s.lastErr
}

// InProgress reports whether a sweep is currently running.
func (s *Scheduler) InProgress() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.inProgress
}

// Stop stops the scheduler and waits for running sweeps to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.runs.Wait()
		s.running = false
		s.logger.Info("sweep scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled sweep time, or nil if not scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
