// Package scheduler runs named background jobs on a fixed interval. It
// drives the stock alert sweep and the nightly maintenance jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/pkg/logger"
)

// Job is one named task
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler runs its jobs once on Start and then on every tick
type Scheduler struct {
	jobs     []Job
	interval time.Duration
	logger   *logger.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a scheduler; it does nothing until Start
func New(interval time.Duration, log *logger.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs:     jobs,
		interval: interval,
		logger:   log,
	}
}

// Start runs the loop in a goroutine until ctx is cancelled or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.logger.Info().Dur("interval", s.interval).Int("jobs", len(s.jobs)).Msg("scheduler started")

		s.RunOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("scheduler stopped")
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the running cycle to finish. A
// scheduler that was never started is a no-op.
func (s *Scheduler) Stop() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// RunOnce runs every job in order. A failing job is logged and does not
// stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error().Err(err).Str("job", job.Name).Msg("job failed")
			continue
		}
		s.logger.Debug().Str("job", job.Name).Dur("duration", time.Since(start)).Msg("job completed")
	}
}
