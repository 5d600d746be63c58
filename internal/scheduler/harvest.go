// Package scheduler triggers periodic harvests.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Trigger starts a harvest of every ETL. It either enqueues a task or runs
// the harvest itself.
type Trigger func(ctx context.Context, force bool) error

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// NextRunTime returns the next activation of schedule after now.
func NextRunTime(schedule string, now time.Time) (time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return sched.Next(now), nil
}

// HarvestScheduler fires the trigger on a cron schedule.
type HarvestScheduler struct {
	schedule string
	force    bool
	trigger  Trigger

	cron         *cron.Cron
	entryID      cron.EntryID
	mu           sync.RWMutex
	isRunning    bool
	isTriggering bool
	ctx          context.Context
	cancelFunc   context.CancelFunc
}

// NewHarvestScheduler creates a scheduler; call Start to activate it.
func NewHarvestScheduler(schedule string, force bool, trigger Trigger) *HarvestScheduler {
	return &HarvestScheduler{
		schedule: schedule,
		force:    force,
		trigger:  trigger,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the job and starts the cron loop. It stops when ctx is done.
func (s *HarvestScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runHarvest)
	if err != nil {
		return fmt.Errorf("failed to schedule harvest job: %w", err)
	}
	s.entryID = entryID

	s.ctx, s.cancelFunc = context.WithCancel(ctx)
	s.cron.Start()
	s.isRunning = true

	next, _ := NextRunTime(s.schedule, time.Now())
	slog.Info("Scheduler: started", "schedule", s.schedule, "force", s.force, "next_run", next)

	go func(done <-chan struct{}) {
		<-done
		s.Stop()
	}(s.ctx.Done())

	return nil
}

// Stop stops the cron loop and waits for a running trigger to return.
func (s *HarvestScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cron.Remove(s.entryID)
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// runHarvest takes the lock, so wait without holding it
	<-s.cron.Stop().Done()
	cancel()

	slog.Info("Scheduler: stopped")
}

// RunNow fires the trigger immediately in the background.
func (s *HarvestScheduler) RunNow() {
	go s.runHarvest()
}

// IsRunning reports whether the scheduler is active.
func (s *HarvestScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsTriggering reports whether a trigger call is in progress.
func (s *HarvestScheduler) IsTriggering() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isTriggering
}

// NextRun returns when the next harvest will be triggered, or nil when stopped.
func (s *HarvestScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *HarvestScheduler) runHarvest() {
	s.mu.Lock()
	if s.isTriggering {
		s.mu.Unlock()
		slog.Info("Scheduler: skipped, previous trigger still running")
		return
	}
	s.isTriggering = true
	ctx := s.ctx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isTriggering = false
		s.mu.Unlock()
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	slog.Info("Scheduler: triggering harvest", "force", s.force)
	if err := s.trigger(ctx, s.force); err != nil {
		slog.Error("Scheduler: harvest trigger failed", "error", err)
		return
	}
	slog.Info("Scheduler: harvest trigger done", "duration", time.Since(start).Round(time.Millisecond))
}
