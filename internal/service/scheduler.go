package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payments-worker/internal/core/ports"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// MinInterval is the lowest tick interval a job may run at.
const MinInterval = 2 * time.Second

// Task is one tick of a recurring job.
type Task func(ctx context.Context) error

// Sequence runs tasks one after another on the same tick and joins their
// errors. Nil tasks are skipped.
func Sequence(tasks ...Task) Task {
	return func(ctx context.Context) error {
		var errs []error
		for _, t := range tasks {
			if t == nil {
				continue
			}
			if err := t(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

type job struct {
	name     string
	interval time.Duration
	task     Task
}

// Scheduler runs registered tasks at fixed intervals on gocron. Ticks of one
// job never overlap; different jobs run concurrently.
type Scheduler struct {
	jobs        []job
	lease       ports.TickLease // optional
	tickTimeout time.Duration
	minInterval time.Duration
	log         zerolog.Logger
}

// NewScheduler creates a scheduler. lease may be nil.
func NewScheduler(lease ports.TickLease, tickTimeout, minInterval time.Duration, log zerolog.Logger) *Scheduler {
	if minInterval < MinInterval {
		minInterval = MinInterval
	}
	return &Scheduler{
		lease:       lease,
		tickTimeout: tickTimeout,
		minInterval: minInterval,
		log:         log,
	}
}

// Every registers task to run every interval, clamped to the floor.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) {
	if interval < s.minInterval {
		s.log.Warn().Str("job", name).Dur("interval", interval).Dur("floor", s.minInterval).Msg("interval below floor, clamped")
		interval = s.minInterval
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, task: task})
}

// Run registers every job on a gocron scheduler and blocks until ctx is
// cancelled. Jobs start immediately; a job whose previous tick is still
// running does not start another one.
func (s *Scheduler) Run(ctx context.Context) {
	cron := gocron.NewScheduler(time.UTC)

	for _, j := range s.jobs {
		_, err := cron.Every(j.interval).
			Tag(j.name).
			SingletonMode().
			StartImmediately().
			Do(func() { s.tick(ctx, j) })
		if err != nil {
			s.log.Error().Err(err).Str("job", j.name).Msg("job not scheduled")
			continue
		}
		s.log.Info().Str("job", j.name).Dur("interval", j.interval).Msg("job started")
	}

	cron.StartAsync()
	<-ctx.Done()
	cron.Stop()
	s.log.Info().Int("jobs", len(s.jobs)).Msg("scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context, j job) {
	if ctx.Err() != nil {
		return
	}

	if s.lease != nil {
		ok, err := s.lease.Acquire(ctx, j.name, s.tickTimeout)
		if err != nil {
			s.log.Warn().Err(err).Str("job", j.name).Msg("tick lease unavailable, running anyway")
		} else if !ok {
			s.log.Debug().Str("job", j.name).Msg("tick lease held elsewhere, skipping")
			return
		} else {
			defer func() {
				if err := s.lease.Release(context.WithoutCancel(ctx), j.name); err != nil {
					s.log.Warn().Err(err).Str("job", j.name).Msg("tick lease release failed")
				}
			}()
		}
	}

	tickCtx := ctx
	if s.tickTimeout > 0 {
		var cancel context.CancelFunc
		tickCtx, cancel = context.WithTimeout(ctx, s.tickTimeout)
		defer cancel()
	}

	if err := s.run(tickCtx, j); err != nil {
		s.log.Error().Err(err).Str("job", j.name).Msg("tick failed")
	}
}

func (s *Scheduler) run(ctx context.Context, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return j.task(ctx)
}
