// Package sessions materializa un feed armado bajo un token para
// paginarlo de forma estable mientras dure la sesión.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/cache"

	"github.com/google/uuid"
)

const (
	keyPrefix = "session:"

	DefaultTTL      = 2 * time.Hour
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	// ErrSessionExpired: la sesión no existe o venció; el cliente arranca de nuevo.
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidInput   = errors.New("invalid input")
)

// Loader trae animales respetando el orden de ids.
type Loader interface {
	ListOrdered(ctx context.Context, ids []int64) ([]animals.Animal, error)
}

type SeenWriter interface {
	MarkSeen(ctx context.Context, userID int64, animalIDs []int64) error
}

type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

type Page struct {
	SessionID  string
	Items      []animals.Animal
	Pagination Pagination
}

// Empty es el feed bien formado que se devuelve cuando no hay candidatos.
func Empty(pageSize int) Page {
	return Page{
		Items:      []animals.Animal{},
		Pagination: Pagination{Page: 1, PageSize: clampSize(pageSize)},
	}
}

type playlist struct {
	UserID    int64     `json:"user_id"`
	IDs       []int64   `json:"ids"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	cache cache.Cache
	items Loader
	seen  SeenWriter
	ttl   time.Duration
	log   logger.Logger

	now func() time.Time
}

func NewService(c cache.Cache, items Loader, seen SeenWriter, ttl time.Duration, log logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		cache: c,
		items: items,
		seen:  seen,
		ttl:   ttl,
		log:   log.With(map[string]any{"component": "sessions"}),
		now:   time.Now,
	}
}

// Create guarda la lista completa bajo un token nuevo con TTL fijo.
func (s *Service) Create(ctx context.Context, userID int64, ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(playlist{UserID: userID, IDs: ids, CreatedAt: s.now().UTC()})
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := s.cache.Set(ctx, keyPrefix+id, string(b), s.ttl); err != nil {
		return "", fmt.Errorf("sessions: store playlist: %w", err)
	}
	return id, nil
}

// Page corta la lista materializada; nunca vuelve a armar el feed.
// Los ids servidos quedan marcados como vistos para el dueño de la sesión.
func (s *Service) Page(ctx context.Context, sessionID string, page, pageSize int) (Page, error) {
	if sessionID == "" || page < 1 || pageSize < 1 {
		return Page{}, ErrInvalidInput
	}
	pageSize = clampSize(pageSize)

	raw, err := s.cache.Get(ctx, keyPrefix+sessionID)
	if errors.Is(err, cache.ErrMiss) {
		s.log.Debug("session expired", map[string]any{"session_id": sessionID})
		return Page{}, ErrSessionExpired
	}
	if err != nil {
		return Page{}, fmt.Errorf("sessions: read playlist: %w", err)
	}

	var pl playlist
	if err := json.Unmarshal([]byte(raw), &pl); err != nil {
		// entrada corrupta: para el cliente es lo mismo que vencida
		s.log.Warn("corrupt session entry", map[string]any{"session_id": sessionID})
		return Page{}, ErrSessionExpired
	}

	total := len(pl.IDs)
	totalPages := (total + pageSize - 1) / pageSize
	// se compara contra totalPages antes de multiplicar: page viene del query string
	from := total
	if page <= totalPages {
		from = (page - 1) * pageSize
	}
	to := total
	if total-from > pageSize {
		to = from + pageSize
	}
	slice := pl.IDs[from:to]

	items, err := s.items.ListOrdered(ctx, slice)
	if err != nil {
		return Page{}, fmt.Errorf("sessions: load items: %w", err)
	}

	if len(items) > 0 && s.seen != nil {
		served := make([]int64, 0, len(items))
		for _, a := range items {
			served = append(served, a.ID)
		}
		if err := s.seen.MarkSeen(ctx, pl.UserID, served); err != nil {
			s.log.Warn("mark seen failed", logger.Err(err))
		}
	}

	return Page{
		SessionID: sessionID,
		Items:     items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}, nil
}

func clampSize(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}
