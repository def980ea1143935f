package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Checkpointer saves session state without ending the session
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// Scheduler runs the periodic autosave of a session
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Checkpointer
	interval  time.Duration
	timeout   time.Duration
	log       *slog.Logger
}

// New creates a scheduler that checkpoints target every interval
func New(target Checkpointer, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       logger,
	}
}

// Start begins the autosave job. The first save happens one interval from now.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("autosave interval %v must be positive", s.interval)
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.autosave)
	if err != nil {
		return fmt.Errorf("failed to schedule autosave: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.log.Info("autosave scheduled", "interval", s.interval)
	return nil
}

// Stop terminates the autosave job
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunNow forces a checkpoint outside the schedule
func (s *Scheduler) RunNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.target.Checkpoint(ctx)
}

// autosave checkpoints the session; failures are logged and retried on the next run
func (s *Scheduler) autosave() {
	if err := s.RunNow(); err != nil {
		s.log.Warn("autosave failed", "error", err)
		return
	}
	s.log.Debug("autosave complete")
}
