// Package browse es el proxy paginado de búsqueda contra upstream, con
// cache de lectura para no gastar presupuesto en búsquedas repetidas.
package browse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/domain/geocode"
	"pet-reels/internal/domain/governor"
	"pet-reels/internal/domain/tokens"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/cache"
	"pet-reels/internal/ports/upstream"
)

const (
	keyPrefix = "browse:"

	DefaultTTL    = 10 * time.Minute
	DefaultLimit  = 20
	MaxLimit      = 100
	DefaultRadius = 100
)

var ErrInvalidInput = errors.New("invalid input")

type Query struct {
	Location string
	Page     int
	Limit    int
}

// Item es la vista reducida de un anuncio para el browse.
type Item struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Breed          string `json:"breed,omitempty"`
	Age            string `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Size           string `json:"size,omitempty"`
	PhotoURL       string `json:"photo_url,omitempty"`
	VideoURL       string `json:"video_url,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
}

type Result struct {
	Items      []Item `json:"items"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}

type Service struct {
	cache    cache.Cache
	gov      *governor.Governor
	tokens   tokens.Source
	listings upstream.Listings
	elig     animals.Eligibility
	ttl      time.Duration
	log      logger.Logger
}

func NewService(c cache.Cache, gov *governor.Governor, src tokens.Source, listings upstream.Listings, elig animals.Eligibility, ttl time.Duration, log logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		cache:    c,
		gov:      gov,
		tokens:   src,
		listings: listings,
		elig:     elig,
		ttl:      ttl,
		log:      log.With(map[string]any{"component": "browse"}),
	}
}

// Search devuelve una página de upstream, cacheada por consulta. Si
// upstream no responde el resultado es vacío, no un error.
func (s *Service) Search(ctx context.Context, q Query) (Result, error) {
	q, err := normalize(q)
	if err != nil {
		return Result{}, err
	}
	key := keyPrefix + geocode.Normalize(q.Location) + ":" + strconv.Itoa(q.Page) + ":" + strconv.Itoa(q.Limit)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var res Result
		if jerr := json.Unmarshal([]byte(raw), &res); jerr == nil {
			return res, nil
		}
	case !errors.Is(err, cache.ErrMiss):
		s.log.Warn("browse cache read failed", logger.Err(err))
	}

	page, err := tokens.Authorized(ctx, s.tokens, s.gov, func(ctx context.Context, token string) (upstream.SearchPage, error) {
		return s.listings.SearchAnimals(ctx, token, upstream.SearchQuery{
			Location:      q.Location,
			DistanceMiles: DefaultRadius,
			Sort:          upstream.SortDistance,
			Page:          q.Page,
			Limit:         q.Limit,
		})
	})
	if err != nil {
		s.log.Warn("browse search failed, serving empty page", map[string]any{"location": q.Location, "error": err.Error()})
		return Result{Items: []Item{}, Page: q.Page}, nil
	}

	res := Result{Items: make([]Item, 0, len(page.Listings)), Page: q.Page, TotalPages: page.TotalPages}
	for _, l := range page.Listings {
		// sin video reproducible no entra al feed ni al browse
		if it, ok := s.toItem(l); ok {
			res.Items = append(res.Items, it)
		}
	}

	if b, err := json.Marshal(res); err == nil {
		if err := s.cache.Set(ctx, key, string(b), s.ttl); err != nil {
			s.log.Warn("browse cache write failed", logger.Err(err))
		}
	}
	return res, nil
}

func (s *Service) toItem(l upstream.Listing) (Item, bool) {
	videoURL, ok := s.elig.VideoURL(animals.DocumentsFrom(l.Videos))
	if !ok {
		return Item{}, false
	}
	it := Item{
		ID:             l.ID,
		Name:           l.Name,
		Type:           l.Type,
		Breed:          animals.Document(l.Breeds).String("primary"),
		Age:            l.Age,
		Gender:         l.Gender,
		Size:           l.Size,
		OrganizationID: l.OrganizationID,
	}
	if photos := animals.DocumentsFrom(l.Photos); len(photos) > 0 {
		it.PhotoURL = photos[0].String("medium")
	}
	it.VideoURL = videoURL
	return it, true
}

func normalize(q Query) (Query, error) {
	if geocode.Normalize(q.Location) == "" {
		return q, fmt.Errorf("%w: location required", ErrInvalidInput)
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	return q, nil
}
