// Package pipeline sincroniza el store local contra el proveedor de
// anuncios: discovery, quick-scan, refresh, janitor y dedup. Todos los
// jobs son idempotentes por id de upstream.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/domain/governor"
	"pet-reels/internal/domain/tokens"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/upstream"
)

const (
	JobDiscovery = "discovery"
	JobQuickScan = "quickscan"
	JobRefresh   = "refresh"
	JobJanitor   = "janitor"
	JobDedup     = "dedup"
)

var ErrUnknownJob = errors.New("unknown job")

// Jobs devuelve los nombres válidos para Run.
func Jobs() []string {
	return []string{JobDiscovery, JobQuickScan, JobRefresh, JobJanitor, JobDedup}
}

// StateStore guarda timestamps de progreso (scan global, hubs sembrados).
// GetTime devuelve el cero si la clave no existe.
type StateStore interface {
	GetTime(ctx context.Context, key string) (time.Time, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}

type Resolver interface {
	Resolve(ctx context.Context, place string) (upstream.Point, error)
}

type Deps struct {
	Governor      *governor.Governor
	Tokens        tokens.Source
	Listings      upstream.Listings
	Resolver      Resolver
	Animals       animals.Repository
	Organizations animals.OrganizationRepository
	State         StateStore
	Eligibility   animals.Eligibility
	Logger        logger.Logger
}

type Pipeline struct {
	gov      *governor.Governor
	tokens   tokens.Source
	listings upstream.Listings
	geo      Resolver
	animals  animals.Repository
	orgs     animals.OrganizationRepository
	state    StateStore
	elig     animals.Eligibility
	cfg      Config
	log      logger.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(d Deps, cfg Config) *Pipeline {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		gov:      d.Governor,
		tokens:   d.Tokens,
		listings: d.Listings,
		geo:      d.Resolver,
		animals:  d.Animals,
		orgs:     d.Organizations,
		state:    d.State,
		elig:     d.Eligibility,
		cfg:      cfg.withDefaults(),
		log:      log.With(map[string]any{"component": "pipeline"}),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Run ejecuta un job por nombre (scheduler y CLI).
func (p *Pipeline) Run(ctx context.Context, job string) (Summary, error) {
	switch job {
	case JobDiscovery:
		return p.Discovery(ctx)
	case JobQuickScan:
		return p.QuickScan(ctx)
	case JobRefresh:
		return p.Refresh(ctx)
	case JobJanitor:
		return p.Janitor(ctx)
	case JobDedup:
		return p.Dedup(ctx)
	default:
		return Summary{Job: job}, fmt.Errorf("%w: %q", ErrUnknownJob, job)
	}
}

// Summary resume una corrida. Stopped indica corte por presupuesto.
type Summary struct {
	Job       string
	StartedAt time.Time
	Duration  time.Duration

	Hubs     int
	Pages    int
	Seen     int
	Created  int
	Updated  int
	Touched  int64
	Deleted  int64
	Orphans  int64
	Deferred int
	Skipped  int
	Failed   int

	Stopped  bool
	Advanced bool
}

func (s Summary) Fields() map[string]any {
	return map[string]any{
		"job":      s.Job,
		"duration": s.Duration,
		"hubs":     s.Hubs,
		"pages":    s.Pages,
		"seen":     s.Seen,
		"created":  s.Created,
		"updated":  s.Updated,
		"touched":  s.Touched,
		"deleted":  s.Deleted,
		"orphans":  s.Orphans,
		"deferred": s.Deferred,
		"skipped":  s.Skipped,
		"failed":   s.Failed,
		"stopped":  s.Stopped,
		"advanced": s.Advanced,
	}
}

func (p *Pipeline) start(job string) Summary {
	return Summary{Job: job, StartedAt: p.now().UTC()}
}

func (p *Pipeline) finish(sum Summary, err error) (Summary, error) {
	sum.Duration = p.now().UTC().Sub(sum.StartedAt)
	fields := sum.Fields()
	if err != nil {
		fields["error"] = err.Error()
		p.log.Error("job aborted", fields)
		return sum, err
	}
	p.log.Info("job finished", fields)
	return sum, nil
}

// hubFailed aísla fallas por hub. stop=true corta la corrida; fatal != nil
// aborta el job (auth o contexto). Presupuesto agotado corta sin error.
func (p *Pipeline) hubFailed(sum *Summary, hub Hub, err error) (stop bool, fatal error) {
	if err == nil {
		return false, nil
	}
	fields := map[string]any{"job": sum.Job, "hub": hub.Name, "error": err.Error()}

	switch {
	case errors.Is(err, upstream.ErrBudgetExceeded):
		sum.Stopped = true
		p.log.Info("daily budget exhausted, stopping run", fields)
		return true, nil
	case errors.Is(err, upstream.ErrAuthFailure),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true, err
	case errors.Is(err, upstream.ErrGeocodeNotFound):
		sum.Skipped++
		p.log.Warn("hub location not found, skipping", fields)
		return false, nil
	default:
		sum.Failed++
		p.log.Warn("hub failed", fields)
		return false, nil
	}
}

// stops indica errores que no se aíslan a nivel registro.
func stops(err error) bool {
	return errors.Is(err, upstream.ErrBudgetExceeded) ||
		errors.Is(err, upstream.ErrAuthFailure) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (p *Pipeline) recordFailed(sum *Summary, id int64, err error) {
	sum.Failed++
	p.log.Warn("record failed", map[string]any{"job": sum.Job, "animal_id": id, "error": err.Error()})
}

// pause es el pacing fijo entre hubs.
func (p *Pipeline) pause(ctx context.Context, i int) error {
	if i == 0 || p.cfg.HubDelay <= 0 {
		return nil
	}
	return p.sleep(ctx, p.cfg.HubDelay)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
