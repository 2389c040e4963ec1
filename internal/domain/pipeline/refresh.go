package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/ports/upstream"

	"golang.org/x/sync/errgroup"
)

type verdict int

const (
	keep verdict = iota
	drop
	deferred
)

type revalidation struct {
	verdict verdict
	animal  animals.Animal
	reason  string
}

// Refresh revalida el store. La pasada amplia mueve last_seen_at de todo
// lo que aparece en páginas recientes sin pedir detalles. La pasada
// dirigida pide el detalle de cada registro at-risk y confirma updates y
// bajas en una sola transacción.
func (p *Pipeline) Refresh(ctx context.Context) (Summary, error) {
	sum := p.start(JobRefresh)

	for i, hub := range p.cfg.Hubs {
		if err := p.pause(ctx, i); err != nil {
			return p.finish(sum, err)
		}
		sum.Hubs++
		err := p.touchHub(ctx, hub, &sum)
		if stop, fatal := p.hubFailed(&sum, hub, err); stop {
			return p.finish(sum, fatal)
		}
	}

	if err := p.revalidate(ctx, &sum); err != nil {
		return p.finish(sum, err)
	}
	return p.finish(sum, nil)
}

func (p *Pipeline) touchHub(ctx context.Context, hub Hub, sum *Summary) error {
	loc, err := p.hubLocation(ctx, hub)
	if err != nil {
		return err
	}

	for page := 1; page <= p.cfg.RefreshPages; page++ {
		res, err := p.search(ctx, upstream.SearchQuery{
			Location:      loc,
			DistanceMiles: p.cfg.HubRadiusMiles,
			Sort:          upstream.SortRecent,
			Page:          page,
			Limit:         p.cfg.PageSize,
		})
		if err != nil {
			return fmt.Errorf("search page %d: %w", page, err)
		}
		sum.Pages++
		sum.Seen += len(res.Listings)

		// solo lo que sigue siendo elegible cuenta como visto
		ids := make([]int64, 0, len(res.Listings))
		for _, l := range res.Listings {
			if _, ok := p.eligible(l); ok {
				ids = append(ids, l.ID)
			}
		}
		n, err := p.animals.TouchSeen(ctx, ids, p.now().UTC())
		if err != nil {
			return fmt.Errorf("touch seen: %w", err)
		}
		sum.Touched += n

		if page >= res.TotalPages {
			break
		}
	}
	return nil
}

func (p *Pipeline) revalidate(ctx context.Context, sum *Summary) error {
	now := p.now().UTC()
	atRisk, err := p.animals.ListLastSeenBetween(ctx, now.Add(-p.cfg.AtRiskMax), now.Add(-p.cfg.AtRiskMin), p.cfg.RefreshBatch)
	if err != nil {
		return fmt.Errorf("list at-risk: %w", err)
	}
	if len(atRisk) == 0 {
		return nil
	}

	results := make([]revalidation, len(atRisk))
	var exhausted atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.RefreshConcurrency)
	for i, cur := range atRisk {
		g.Go(func() error {
			if exhausted.Load() {
				results[i] = revalidation{verdict: deferred, reason: "budget"}
				return nil
			}
			l, err := p.fetchAnimal(gctx, cur.ID)
			if errors.Is(err, upstream.ErrAuthFailure) {
				return err
			}
			if errors.Is(err, upstream.ErrBudgetExceeded) {
				exhausted.Store(true)
			}
			results[i] = p.judge(cur, l, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	updates := make([]animals.Animal, 0, len(results))
	deletes := make([]int64, 0)
	for i, res := range results {
		id := atRisk[i].ID
		switch res.verdict {
		case keep:
			updates = append(updates, res.animal)
		case drop:
			deletes = append(deletes, id)
			p.log.Debug("record removed upstream", map[string]any{"animal_id": id, "reason": res.reason})
		case deferred:
			sum.Deferred++
			if res.reason != "budget" {
				p.log.Warn("revalidation deferred", map[string]any{"animal_id": id, "error": res.reason})
			}
		}
	}
	if exhausted.Load() {
		sum.Stopped = true
	}

	if err := p.animals.ApplyRevalidation(ctx, updates, deletes); err != nil {
		return fmt.Errorf("apply revalidation: %w", err)
	}
	sum.Updated += len(updates)
	sum.Deleted += int64(len(deletes))
	return nil
}

// judge clasifica el resultado del detalle. 404 es baja confirmada; un
// anuncio que ya no es elegible también se baja. Cualquier otro error
// se difiere al próximo ciclo.
func (p *Pipeline) judge(cur animals.Animal, l upstream.Listing, err error) revalidation {
	switch {
	case err == nil:
	case errors.Is(err, upstream.ErrNotFound):
		return revalidation{verdict: drop, reason: "not found"}
	case errors.Is(err, upstream.ErrBudgetExceeded):
		return revalidation{verdict: deferred, reason: "budget"}
	default:
		return revalidation{verdict: deferred, reason: err.Error()}
	}

	videoURL, ok := p.eligible(l)
	if !ok {
		return revalidation{verdict: drop, reason: "no longer eligible"}
	}

	a := toAnimal(l, videoURL, p.now().UTC())
	// coordenadas y organización se conservan; el detalle no se geocodifica acá
	a.Lat, a.Lon = cur.Lat, cur.Lon
	a.OrganizationID = cur.OrganizationID
	return revalidation{verdict: keep, animal: a}
}
