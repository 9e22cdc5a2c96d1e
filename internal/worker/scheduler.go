package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Scheduler runs periodic maintenance tasks (QR rotation, nightly attendance
// close) on cron expressions evaluated in the gym's time zone. A task that is
// still running when its next tick fires is skipped.
type Scheduler struct {
	c       *cron.Cron
	timeout time.Duration
}

func NewScheduler(loc *time.Location) *Scheduler {
	cl := log.With().Str("component", "cron").Logger()
	logger := cron.PrintfLogger(&cl)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	return &Scheduler{c: c, timeout: 4 * time.Minute}
}

// Add registers fn under schedule. ctx is the parent of every run.
func (s *Scheduler) Add(ctx context.Context, nombre, schedule string, fn func(context.Context) error) error {
	_, err := s.c.AddFunc(schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		start := time.Now()
		l := log.With().Str("component", "cron").Str("task", nombre).Logger()
		if err := fn(runCtx); err != nil {
			l.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("task failed")
			return
		}
		l.WithLevel(zerolog.DebugLevel).Dur("elapsed", time.Since(start)).Msg("task done")
	})
	if err != nil {
		return err
	}
	log.Info().Str("task", nombre).Str("schedule", schedule).Msg("cron task registered")
	return nil
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop prevents new runs and waits for running ones to finish (or ctx).
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
