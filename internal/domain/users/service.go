package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidClientID = errors.New("invalid client id")
	ErrInvalidInput    = errors.New("invalid input")
)

const maxSeenBatch = 500

type Service struct {
	repo Repository
	seen SeenRepository
	now  func() time.Time
}

func NewService(repo Repository, seen SeenRepository) *Service {
	return &Service{
		repo: repo,
		seen: seen,
		now:  time.Now,
	}
}

// Resolve traduce el X-Client-ID del cliente al usuario interno.
func (s *Service) Resolve(ctx context.Context, clientID string) (User, error) {
	id, err := uuid.Parse(strings.TrimSpace(clientID))
	if err != nil || id == uuid.Nil {
		return User{}, ErrInvalidClientID
	}
	return s.repo.GetOrCreate(ctx, id, s.now().UTC())
}

// MarkSeen agrega marcas para ids válidos. Duplicados dentro del lote se colapsan.
func (s *Service) MarkSeen(ctx context.Context, userID int64, animalIDs []int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	if len(animalIDs) > maxSeenBatch {
		return ErrInvalidInput
	}

	uniq := make([]int64, 0, len(animalIDs))
	dup := make(map[int64]bool, len(animalIDs))
	for _, id := range animalIDs {
		if id <= 0 || dup[id] {
			continue
		}
		dup[id] = true
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return nil
	}
	return s.seen.Add(ctx, userID, uniq, s.now().UTC())
}

func (s *Service) SeenIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.seen.ListAnimalIDs(ctx, userID)
}
