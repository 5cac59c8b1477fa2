// Package jobs runs the periodic background work: refreshing the cached
// average and sending reminder emails.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Job is a named unit of scheduled work. An empty Schedule disables it.
type Job struct {
	Name     string
	Schedule string
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs on their cron schedules. A run that is still going
// when the next tick arrives makes that tick a no-op.
type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

// NewScheduler creates a scheduler for jobs; nothing runs until Start
func NewScheduler(jobs ...Job) *Scheduler {
	logger := cronLogger{log.Logger}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		), cron.WithLogger(logger)),
		jobs: jobs,
	}
}

// Start registers every enabled job and starts the cron loop
func (s *Scheduler) Start() error {
	for _, job := range s.jobs {
		if job.Schedule == "" {
			log.Info().Str("job", job.Name).Msg("job disabled, no schedule")
			continue
		}
		if _, err := s.cron.AddFunc(job.Schedule, func() { runJob(job) }); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.Name, err)
		}
		log.Info().Str("job", job.Name).Str("schedule", job.Schedule).Msg("job scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits, up to ctx's deadline, for running jobs
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		log.Info().Msg("scheduler stopped")
	case <-ctx.Done():
		log.Warn().Msg("scheduler stop timed out with jobs still running")
	}
}

func runJob(job Job) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Error().Err(err).Str("job", job.Name).Dur("duration", time.Since(start)).Msg("job failed")
		return
	}
	log.Debug().Str("job", job.Name).Dur("duration", time.Since(start)).Msg("job finished")
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
