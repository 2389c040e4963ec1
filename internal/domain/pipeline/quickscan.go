package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pet-reels/internal/ports/upstream"
)

const lastScanKey = "quickscan.last_scan_at"

// QuickScan trae lo publicado después del último scan global y lo
// crea o actualiza, con tope por hub. El timestamp se lee una vez al
// inicio y solo avanza tras una pasada completa sin hubs fallidos ni
// hubs sembrados que se salteen por no poder ubicarlos.
func (p *Pipeline) QuickScan(ctx context.Context) (Summary, error) {
	sum := p.start(JobQuickScan)
	runStart := sum.StartedAt

	since, err := p.state.GetTime(ctx, lastScanKey)
	if err != nil {
		return p.finish(sum, fmt.Errorf("read scan timestamp: %w", err))
	}
	if since.IsZero() {
		since = runStart.Add(-p.cfg.QuickScanLookback)
	}

	r := newRun()
	missed := false
	for i, hub := range p.cfg.Hubs {
		if err := p.pause(ctx, i); err != nil {
			return p.finish(sum, err)
		}

		seeded, err := p.state.GetTime(ctx, seededKey(hub.Name))
		if err != nil {
			p.hubFailed(&sum, hub, fmt.Errorf("read hub state: %w", err))
			continue
		}
		if seeded.IsZero() {
			// todavía no lo sembró discovery
			sum.Skipped++
			continue
		}

		sum.Hubs++
		err = p.scanHub(ctx, r, hub, since, &sum)
		if errors.Is(err, upstream.ErrGeocodeNotFound) {
			// la ventana de este hub queda pendiente para el próximo run
			missed = true
		}
		if stop, fatal := p.hubFailed(&sum, hub, err); stop {
			return p.finish(sum, fatal)
		}
	}

	if sum.Failed == 0 && !missed {
		if err := p.state.SetTime(ctx, lastScanKey, runStart); err != nil {
			return p.finish(sum, fmt.Errorf("write scan timestamp: %w", err))
		}
		sum.Advanced = true
	}
	return p.finish(sum, nil)
}

func (p *Pipeline) scanHub(ctx context.Context, r *run, hub Hub, since time.Time, sum *Summary) error {
	loc, err := p.hubLocation(ctx, hub)
	if err != nil {
		return err
	}

	written := 0
	for page := 1; written < p.cfg.QuickScanCap; page++ {
		res, err := p.search(ctx, upstream.SearchQuery{
			Location:      loc,
			DistanceMiles: p.cfg.HubRadiusMiles,
			Sort:          upstream.SortRecent,
			After:         since,
			Page:          page,
			Limit:         p.cfg.PageSize,
		})
		if err != nil {
			return fmt.Errorf("search page %d: %w", page, err)
		}
		sum.Pages++

		for _, l := range res.Listings {
			if written >= p.cfg.QuickScanCap {
				break
			}
			sum.Seen++
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
			created, err := p.animals.Upsert(ctx, a)
			if err != nil {
				p.recordFailed(sum, l.ID, err)
				continue
			}
			written++
			if created {
				sum.Created++
			} else {
				sum.Updated++
			}
		}

		if page >= res.TotalPages {
			break
		}
	}
	return nil
}
