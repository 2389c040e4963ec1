package feed

import (
	"context"
	"errors"
	"math"
	"strings"

	"pet-reels/internal/domain/sessions"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/upstream"
)

var (
	ErrInvalidOrigin = errors.New("origin requires a location or lat/lon")
)

// Origin es desde dónde se arma el feed: un lugar o coordenadas.
type Origin struct {
	Place string
	Lat   *float64
	Lon   *float64
}

type Geocoder interface {
	Resolve(ctx context.Context, place string) (upstream.Point, error)
}

type SeenLister interface {
	SeenIDs(ctx context.Context, userID int64) ([]int64, error)
}

type Sessions interface {
	Create(ctx context.Context, userID int64, ids []int64) (string, error)
	Page(ctx context.Context, sessionID string, page, pageSize int) (sessions.Page, error)
}

type Service struct {
	asm      *Assembler
	geo      Geocoder
	seen     SeenLister
	sessions Sessions
	log      logger.Logger
}

func NewService(asm *Assembler, geo Geocoder, seen SeenLister, s Sessions, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		asm:      asm,
		geo:      geo,
		seen:     seen,
		sessions: s,
		log:      log.With(map[string]any{"component": "feed"}),
	}
}

// Start arma el feed del usuario, lo materializa en una sesión y devuelve
// la primera página. Si no hay geocode o el store falla, el feed vuelve
// vacío y bien formado, sin error.
func (s *Service) Start(ctx context.Context, userID int64, origin Origin, pageSize int) (sessions.Page, error) {
	if err := origin.validate(); err != nil {
		return sessions.Page{}, err
	}

	point, err := s.resolve(ctx, origin)
	if err != nil {
		s.log.Warn("origin not resolved, serving empty feed", map[string]any{"place": origin.Place, "error": err.Error()})
		return sessions.Empty(pageSize), nil
	}

	seen, err := s.seen.SeenIDs(ctx, userID)
	if err != nil {
		s.log.Warn("seen marks unavailable, serving empty feed", logger.Err(err))
		return sessions.Empty(pageSize), nil
	}

	ids, err := s.asm.Assemble(ctx, point, seen)
	if err != nil {
		s.log.Warn("assemble failed, serving empty feed", logger.Err(err))
		return sessions.Empty(pageSize), nil
	}
	if len(ids) == 0 {
		return sessions.Empty(pageSize), nil
	}

	sessionID, err := s.sessions.Create(ctx, userID, ids)
	if err != nil {
		return sessions.Page{}, err
	}
	if pageSize <= 0 {
		pageSize = sessions.DefaultPageSize
	}
	return s.sessions.Page(ctx, sessionID, 1, pageSize)
}

func (s *Service) resolve(ctx context.Context, o Origin) (upstream.Point, error) {
	if o.Lat != nil && o.Lon != nil {
		return upstream.Point{Lat: *o.Lat, Lon: *o.Lon}, nil
	}
	return s.geo.Resolve(ctx, o.Place)
}

func (o Origin) validate() error {
	if o.Lat != nil && o.Lon != nil {
		lat, lon := *o.Lat, *o.Lon
		if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return ErrInvalidOrigin
		}
		return nil
	}
	if strings.TrimSpace(o.Place) == "" {
		return ErrInvalidOrigin
	}
	return nil
}

// Page sirve una página de una sesión ya creada.
func (s *Service) Page(ctx context.Context, sessionID string, page, pageSize int) (sessions.Page, error) {
	return s.sessions.Page(ctx, sessionID, page, pageSize)
}
