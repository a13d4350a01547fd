package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// WeeklyScheduler runs a job once a week at a fixed weekday and hour (UTC).
type WeeklyScheduler struct {
	weekday time.Weekday
	hour    int
	job     func(ctx context.Context) error
	now     func() time.Time
	log     zerolog.Logger
}

// NewWeeklyScheduler creates a scheduler for job.
func NewWeeklyScheduler(weekday time.Weekday, hour int, job func(ctx context.Context) error, log zerolog.Logger) *WeeklyScheduler {
	return &WeeklyScheduler{
		weekday: weekday,
		hour:    hour,
		job:     job,
		now:     time.Now,
		log:     log,
	}
}

// NextRun returns the first slot strictly after now.
func (s *WeeklyScheduler) NextRun(now time.Time) time.Time {
	now = now.UTC()
	y, m, d := now.Date()
	next := time.Date(y, m, d, s.hour, 0, 0, 0, time.UTC)
	next = next.AddDate(0, 0, (int(s.weekday)-int(next.Weekday())+7)%7)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// Run blocks, firing the job at every slot until ctx is cancelled. A failed
// run is logged and the schedule continues.
func (s *WeeklyScheduler) Run(ctx context.Context) {
	for {
		now := s.now()
		next := s.NextRun(now)
		s.log.Info().Time("next_run", next).Msg("scheduler: waiting for next run")

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("scheduler: stopped")
			return
		case <-timer.C:
		}

		started := time.Now()
		if err := s.job(ctx); err != nil {
			s.log.Error().Err(err).Dur("took", time.Since(started)).Msg("scheduler: run failed")
			continue
		}
		s.log.Info().Dur("took", time.Since(started)).Msg("scheduler: run completed")
	}
}
