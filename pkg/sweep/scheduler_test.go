package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mercator-hq/patternsweep/pkg/records"
	"mercator-hq/patternsweep/pkg/records/storage"
)

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{name: "weekly schedule", schedule: "0 3 * * 0", wantRunning: true},
		{name: "hourly schedule", schedule: "0 * * * *", wantRunning: true},
		{name: "empty schedule", schedule: "", wantError: true},
		{name: "invalid schedule", schedule: "invalid cron", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper := New(storage.NewMemoryStore(), defaultTable(t))
			scheduler := NewScheduler(sweeper, ScheduleConfig{Cron: tt.schedule})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}
			if tt.wantRunning && scheduler.NextRun() == nil {
				t.Error("NextRun() returned nil for running scheduler")
			}

			scheduler.Stop()
			if scheduler.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestScheduler_RunOnStart(t *testing.T) {
	store := storage.NewMemoryStore()
	seedAged(t, store, "phd_patterns", "old", 1, 400*day)

	scheduler := NewScheduler(New(store, defaultTable(t)), ScheduleConfig{Cron: "0 3 * * 0", RunOnStart: true})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if report, _ := scheduler.LastReport(); report != nil {
			if report.Summary.ArchivedCount != 1 {
				t.Errorf("archived = %d, want 1", report.Summary.ArchivedCount)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run on start did not complete")
		}
		time.Sleep(10 * time.Millisecond)
	}

	scheduler.Stop()
}

// blockingStore blocks List until released.
type blockingStore struct {
	*storage.MemoryStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStore) List(ctx context.Context, namespace string) (map[string]records.Record, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.MemoryStore.List(ctx, namespace)
}

// TestScheduler_NoOverlap tests that RunNow refuses to start a second sweep.
func TestScheduler_NoOverlap(t *testing.T) {
	store := &blockingStore{
		MemoryStore: storage.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	scheduler := NewScheduler(New(store, defaultTable(t)), ScheduleConfig{Cron: "0 3 * * 0"})

	done := make(chan error, 1)
	go func() {
		_, err := scheduler.RunNow(context.Background())
		done <- err
	}()

	<-store.entered
	if !scheduler.InProgress() {
		t.Error("InProgress() = false during run")
	}
	if _, err := scheduler.RunNow(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("second RunNow() error = %v, want ErrRunInProgress", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first RunNow() failed: %v", err)
	}
	if scheduler.InProgress() {
		t.Error("InProgress() = true after run")
	}
	if report, _ := scheduler.LastReport(); report == nil {
		t.Error("LastReport() = nil after run")
	}
}

func TestScheduler_GracefulShutdown(t *testing.T) {
	scheduler := NewScheduler(New(storage.NewMemoryStore(), defaultTable(t)), ScheduleConfig{Cron: "0 3 * * 0"})

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	cancel()
	time.Sleep(100 * time.Millisecond)

	if scheduler.IsRunning() {
		t.Error("scheduler still running after context cancelled")
	}
}

func TestScheduler_LastReportBeforeRun(t *testing.T) {
	scheduler := NewScheduler(New(storage.NewMemoryStore(), defaultTable(t)), ScheduleConfig{Cron: "0 3 * * 0"})
	if report, err := scheduler.LastReport(); report != nil || err != nil {
		t.Errorf("LastReport() = %v, %v; want nil, nil", report, err)
	}
}
