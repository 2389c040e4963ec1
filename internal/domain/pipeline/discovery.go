package pipeline

import (
	"context"
	"fmt"

	"pet-reels/internal/ports/upstream"
)

func seededKey(hub string) string {
	return "hub." + hub + ".seeded_at"
}

// Discovery recorre cada hub ordenado por cercanía y da de alta los
// anuncios elegibles que todavía no existen. Al terminar un hub lo marca
// como sembrado; quick-scan solo trabaja sobre hubs sembrados.
func (p *Pipeline) Discovery(ctx context.Context) (Summary, error) {
	sum := p.start(JobDiscovery)
	r := newRun()

	for i, hub := range p.cfg.Hubs {
		if err := p.pause(ctx, i); err != nil {
			return p.finish(sum, err)
		}
		sum.Hubs++
		err := p.discoverHub(ctx, r, hub, &sum)
		if stop, fatal := p.hubFailed(&sum, hub, err); stop {
			return p.finish(sum, fatal)
		}
	}
	return p.finish(sum, nil)
}

func (p *Pipeline) discoverHub(ctx context.Context, r *run, hub Hub, sum *Summary) error {
	loc, err := p.hubLocation(ctx, hub)
	if err != nil {
		return err
	}

	for page := 1; page <= p.cfg.DiscoveryPages; page++ {
		res, err := p.search(ctx, upstream.SearchQuery{
			Location:      loc,
			DistanceMiles: p.cfg.HubRadiusMiles,
			Sort:          upstream.SortDistance,
			Page:          page,
			Limit:         p.cfg.PageSize,
		})
		if err != nil {
			return fmt.Errorf("search page %d: %w", page, err)
		}
		sum.Pages++

		existing, err := p.animals.ExistingIDs(ctx, listingIDs(res.Listings))
		if err != nil {
			return fmt.Errorf("existing ids: %w", err)
		}

		for _, l := range res.Listings {
			sum.Seen++
			if existing[l.ID] {
				continue
			}
			videoURL, ok := p.eligible(l)
			if !ok {
				continue
			}

			a, err := p.admit(ctx, r, l, videoURL)
			if err != nil {
				if stops(err) {
					return err
				}
				p.recordFailed(sum, l.ID, err)
				continue
			}
			created, err := p.animals.CreateIfAbsent(ctx, a)
			if err != nil {
				p.recordFailed(sum, l.ID, err)
				continue
			}
			if created {
				sum.Created++
			}
		}

		if page >= res.TotalPages {
			break
		}
	}

	return p.state.SetTime(ctx, seededKey(hub.Name), p.now().UTC())
}
