package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic expiry sweeps against a persistent backend on a
// cron schedule. The memory backend has its own cleanup loop and does not
// need one; the SQLite backend keeps expired rows on disk until purged.
type Scheduler struct {
	backend  Backend
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a new cache purge scheduler. An empty schedule
// disables it.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
func NewScheduler(backend Backend, schedule string) *Scheduler {
	return &Scheduler{
		backend:  backend,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "dispatch.cache.scheduler"),
	}
}

// Start begins scheduled purging. If the schedule is empty, Start is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("purge schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runPurge(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule purge: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("cache purge scheduler started",
		"schedule", s.schedule,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runPurge executes one purge cycle.
func (s *Scheduler) runPurge(ctx context.Context) {
	deleted, err := s.backend.Purge(ctx, time.Now())
	if err != nil {
		s.logger.Error("scheduled cache purge failed",
			"error", err,
		)
		return
	}

	if deleted > 0 {
		s.logger.Info("scheduled cache purge completed",
			"deleted_count", deleted,
		)
	}
}

// Stop halts scheduled purging. Safe to call multiple times.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.running = false
	s.logger.Info("cache purge scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
