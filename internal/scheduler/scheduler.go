// Package scheduler runs the background jobs on cron schedules.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one schedulable unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (j JobFunc) Name() string                  { return j.JobName }
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// Scheduler wraps cron with per-job overlap suppression: a tick that fires
// while the previous run of the same job is still in flight is skipped, so
// jobs never need to be reentrant.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	logger *slog.Logger
}

// New creates a scheduler whose jobs run under ctx.
func New(ctx context.Context, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		ctx:    ctx,
		logger: logger.With("component", "scheduler"),
	}
}

// AddJob registers a job on the given cron spec ("@hourly", "@every 30m",
// standard five-field specs).
func (s *Scheduler) AddJob(schedule string, job Job) error {
	var mu sync.Mutex
	running := false

	_, err := s.cron.AddFunc(schedule, func() {
		mu.Lock()
		if running {
			mu.Unlock()
			s.logger.Warn("previous run still in flight, skipping tick", "job", job.Name())
			return
		}
		running = true
		mu.Unlock()
		defer func() {
			mu.Lock()
			running = false
			mu.Unlock()
		}()

		start := time.Now()
		if err := job.Run(s.ctx); err != nil {
			s.logger.Error("job failed",
				"job", job.Name(),
				"duration", time.Since(start),
				"error", err,
			)
			return
		}
		s.logger.Debug("job completed",
			"job", job.Name(),
			"duration", time.Since(start),
		)
	})
	if err != nil {
		return err
	}

	s.logger.Info("job registered", "job", job.Name(), "schedule", schedule)
	return nil
}

// Start begins firing schedules in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop halts scheduling and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
