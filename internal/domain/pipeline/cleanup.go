package pipeline

import (
	"context"
	"fmt"

	"pet-reels/internal/domain/animals"
)

// Janitor borra lo que pasó el umbral de staleness y después las
// organizaciones que quedaron sin animales.
func (p *Pipeline) Janitor(ctx context.Context) (Summary, error) {
	sum := p.start(JobJanitor)

	cutoff := sum.StartedAt.Add(-p.cfg.StaleAfter)
	n, err := p.animals.DeleteSeenBefore(ctx, cutoff)
	if err != nil {
		return p.finish(sum, fmt.Errorf("delete stale: %w", err))
	}
	sum.Deleted = n

	orphans, err := p.orgs.DeleteOrphans(ctx)
	if err != nil {
		return p.finish(sum, fmt.Errorf("delete orphan organizations: %w", err))
	}
	sum.Orphans = orphans

	return p.finish(sum, nil)
}

// Dedup colapsa registros con mismo nombre, tipo y composición de razas
// en el de id más bajo.
func (p *Pipeline) Dedup(ctx context.Context) (Summary, error) {
	sum := p.start(JobDedup)

	rows, err := p.animals.ListDedupRows(ctx)
	if err != nil {
		return p.finish(sum, fmt.Errorf("list dedup rows: %w", err))
	}
	sum.Seen = len(rows)

	ids := animals.Duplicates(rows)
	if len(ids) == 0 {
		return p.finish(sum, nil)
	}

	n, err := p.animals.DeleteByIDs(ctx, ids)
	if err != nil {
		return p.finish(sum, fmt.Errorf("delete duplicates: %w", err))
	}
	sum.Deleted = n
	return p.finish(sum, nil)
}
