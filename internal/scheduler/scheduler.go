// Package scheduler corre cada job del pipeline en su propio ticker.
// Un job nunca se solapa consigo mismo; los errores se loguean y el
// job espera al próximo tick.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-reels/internal/domain/pipeline"
	"pet-reels/internal/platform/logger"
)

type Runner interface {
	Run(ctx context.Context, job string) (pipeline.Summary, error)
}

type Option func(*Scheduler)

// WithRunOnStart dispara cada job apenas arranca, sin esperar el primer tick.
func WithRunOnStart(v bool) Option {
	return func(s *Scheduler) { s.runOnStart = v }
}

type Scheduler struct {
	runner     Runner
	intervals  map[string]time.Duration
	runOnStart bool
	log        logger.Logger
}

func New(r Runner, intervals map[string]time.Duration, log logger.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	s := &Scheduler{
		runner:    r,
		intervals: intervals,
		log:       log.With(map[string]any{"component": "scheduler"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Jobs devuelve los jobs agendados, ordenados.
func (s *Scheduler) Jobs() []string {
	out := make([]string, 0, len(s.intervals))
	for job, d := range s.intervals {
		if d > 0 {
			out = append(out, job)
		}
	}
	sort.Strings(out)
	return out
}

// Run bloquea hasta que ctx se cancela y todos los jobs en curso terminan.
func (s *Scheduler) Run(ctx context.Context) error {
	jobs := s.Jobs()
	if len(jobs) == 0 {
		return errors.New("scheduler: no jobs scheduled")
	}

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, job, s.intervals[job])
		}()
	}
	s.log.Info("scheduler started", map[string]any{"jobs": jobs})

	wg.Wait()
	s.log.Info("scheduler stopped", nil)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, job string, every time.Duration) {
	if s.runOnStart {
		s.runOnce(ctx, job)
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job string) {
	if ctx.Err() != nil {
		return
	}
	sum, err := s.runner.Run(ctx, job)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.log.Info("job interrupted by shutdown", map[string]any{"job": job})
			return
		}
		fields := sum.Fields()
		fields["job"] = job
		fields["error"] = err.Error()
		s.log.Error("job failed", fields)
	}
}
