package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-reels/internal/domain/governor"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/cache"
	"pet-reels/internal/ports/upstream"

	"golang.org/x/text/cases"
)

const (
	keyPrefix  = "geocode:"
	DefaultTTL = 30 * 24 * time.Hour
)

// Resolver resuelve lugares a coordenadas con cache de largo plazo.
type Resolver struct {
	cache cache.Cache
	gov   *governor.Governor
	geo   upstream.Geocoder
	ttl   time.Duration
	log   logger.Logger
}

func NewResolver(c cache.Cache, gov *governor.Governor, geo upstream.Geocoder, ttl time.Duration, log logger.Logger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		cache: c,
		gov:   gov,
		geo:   geo,
		ttl:   ttl,
		log:   log.With(map[string]any{"component": "geocode"}),
	}
}

// Normalize arma la clave de cache: trim, espacios colapsados, case-fold.
func Normalize(place string) string {
	fields := strings.Fields(place)
	return cases.Fold().String(strings.Join(fields, " "))
}

// Resolve es cache-first; en miss llama al geocoder vía governor y cachea
// el primer resultado. Sin resultados => upstream.ErrGeocodeNotFound.
func (r *Resolver) Resolve(ctx context.Context, place string) (upstream.Point, error) {
	norm := Normalize(place)
	if norm == "" {
		return upstream.Point{}, upstream.ErrGeocodeNotFound
	}
	key := keyPrefix + norm

	raw, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var p upstream.Point
		if jerr := json.Unmarshal([]byte(raw), &p); jerr == nil {
			return p, nil
		}
		r.log.Warn("corrupt geocode entry, refetching", map[string]any{"key": key})
	case !errors.Is(err, cache.ErrMiss):
		// cache caído: seguimos contra upstream
		r.log.Warn("geocode cache read failed", logger.Err(err))
	}

	points, err := governor.Call(ctx, r.gov, func(ctx context.Context) ([]upstream.Point, error) {
		return r.geo.Geocode(ctx, place)
	})
	if err != nil {
		return upstream.Point{}, fmt.Errorf("geocode %q: %w", norm, err)
	}
	if len(points) == 0 {
		return upstream.Point{}, fmt.Errorf("geocode %q: %w", norm, upstream.ErrGeocodeNotFound)
	}

	p := points[0]
	if b, err := json.Marshal(p); err == nil {
		if err := r.cache.Set(ctx, key, string(b), r.ttl); err != nil {
			r.log.Warn("geocode cache write failed", logger.Err(err))
		}
	}
	return p, nil
}
