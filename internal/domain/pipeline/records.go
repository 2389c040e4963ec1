package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/ports/upstream"
)

// run guarda memo por corrida: organizaciones ya confirmadas y lugares
// ya geocodificados. Lo usan solo las pasadas secuenciales.
type run struct {
	orgs   map[string]bool
	places map[string]*upstream.Point
}

func newRun() *run {
	return &run{
		orgs:   make(map[string]bool),
		places: make(map[string]*upstream.Point),
	}
}

// eligible: status adoptable y primer video reproducible en host no bloqueado.
func (p *Pipeline) eligible(l upstream.Listing) (string, bool) {
	if p.cfg.AdoptableStatus != "" &&
		!strings.EqualFold(strings.TrimSpace(l.Status), p.cfg.AdoptableStatus) {
		return "", false
	}
	return p.elig.VideoURL(animals.DocumentsFrom(l.Videos))
}

func toAnimal(l upstream.Listing, videoURL string, seenAt time.Time) animals.Animal {
	a := animals.Animal{
		ID:         l.ID,
		Name:       strings.TrimSpace(l.Name),
		Type:       strings.TrimSpace(l.Type),
		Species:    l.Species,
		Age:        l.Age,
		Gender:     l.Gender,
		Size:       l.Size,
		Status:     l.Status,
		Breeds:     animals.Document(l.Breeds),
		Colors:     animals.Document(l.Colors),
		Contact:    animals.Document(l.Contact),
		Photos:     animals.DocumentsFrom(l.Photos),
		Videos:     animals.DocumentsFrom(l.Videos),
		VideoURL:   videoURL,
		LastSeenAt: seenAt,
		CreatedAt:  seenAt,
	}
	if org := strings.TrimSpace(l.OrganizationID); org != "" {
		a.OrganizationID = &org
	}
	return a
}

// locate geocodifica ciudad/estado del contacto. Nunca falla: sin
// coordenadas el animal solo entra al tier nacional.
func (p *Pipeline) locate(ctx context.Context, r *run, a *animals.Animal) {
	parts := make([]string, 0, 2)
	for _, s := range []string{a.Contact.String("address", "city"), a.Contact.String("address", "state")} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return
	}
	place := strings.Join(parts, ", ")

	pt, cached := r.places[place]
	if !cached {
		got, err := p.geo.Resolve(ctx, place)
		if err != nil {
			if errors.Is(err, upstream.ErrGeocodeNotFound) {
				r.places[place] = nil
				return
			}
			// budget o red: no se memoiza, puede resolverse más tarde en la corrida
			p.log.Debug("locate failed", map[string]any{"place": place, "error": err.Error()})
			return
		}
		pt = &got
		r.places[place] = pt
	}
	if pt == nil {
		return
	}
	lat, lon := pt.Lat, pt.Lon
	a.Lat, a.Lon = &lat, &lon
}

// ensureOrganization crea la organización en la primera referencia.
// Si el detalle falla por algo no fatal se guarda solo el id.
func (p *Pipeline) ensureOrganization(ctx context.Context, r *run, id string) error {
	if id == "" || r.orgs[id] {
		return nil
	}

	ok, err := p.orgs.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check organization %s: %w", id, err)
	}
	if !ok {
		o := animals.Organization{ID: id, CreatedAt: p.now().UTC()}

		detail, err := p.fetchOrganization(ctx, id)
		switch {
		case err == nil:
			o.Name = detail.Name
			o.Email = detail.Email
			o.Phone = detail.Phone
			o.City = detail.City
			o.State = detail.State
			o.Website = detail.Website
		case stops(err):
			return err
		default:
			p.log.Warn("organization detail failed, storing id only", map[string]any{
				"organization_id": id,
				"error":           err.Error(),
			})
		}

		if _, err := p.orgs.CreateIfAbsent(ctx, o); err != nil {
			return fmt.Errorf("create organization %s: %w", id, err)
		}
	}

	r.orgs[id] = true
	return nil
}

// admit arma el registro listo para persistir: organización asegurada y
// coordenadas resueltas.
func (p *Pipeline) admit(ctx context.Context, r *run, l upstream.Listing, videoURL string) (animals.Animal, error) {
	a := toAnimal(l, videoURL, p.now().UTC())
	if a.OrganizationID != nil {
		if err := p.ensureOrganization(ctx, r, *a.OrganizationID); err != nil {
			return animals.Animal{}, err
		}
	}
	p.locate(ctx, r, &a)
	return a, nil
}

func listingIDs(ls []upstream.Listing) []int64 {
	out := make([]int64, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}
