package pipeline

import (
	"context"

	"pet-reels/internal/domain/tokens"
	"pet-reels/internal/ports/upstream"
)

func (p *Pipeline) search(ctx context.Context, q upstream.SearchQuery) (upstream.SearchPage, error) {
	return tokens.Authorized(ctx, p.tokens, p.gov, func(ctx context.Context, token string) (upstream.SearchPage, error) {
		return p.listings.SearchAnimals(ctx, token, q)
	})
}

func (p *Pipeline) fetchAnimal(ctx context.Context, id int64) (upstream.Listing, error) {
	return tokens.Authorized(ctx, p.tokens, p.gov, func(ctx context.Context, token string) (upstream.Listing, error) {
		return p.listings.GetAnimal(ctx, token, id)
	})
}

func (p *Pipeline) fetchOrganization(ctx context.Context, id string) (upstream.OrganizationListing, error) {
	return tokens.Authorized(ctx, p.tokens, p.gov, func(ctx context.Context, token string) (upstream.OrganizationListing, error) {
		return p.listings.GetOrganization(ctx, token, id)
	})
}

// hubLocation arma el parámetro location: coordenadas fijas o geocode cacheado.
func (p *Pipeline) hubLocation(ctx context.Context, hub Hub) (string, error) {
	if hub.hasCoords() {
		return formatPoint(*hub.Lat, *hub.Lon), nil
	}
	pt, err := p.geo.Resolve(ctx, hub.Location)
	if err != nil {
		return "", err
	}
	return formatPoint(pt.Lat, pt.Lon), nil
}
