package animals

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
)

// Service expone lo poco que el lado consumidor puede hacer sobre animales:
// leerlos en orden y mover el contador de likes.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListOrdered devuelve los animales en el orden de ids; los que ya no
// existen se omiten.
func (s *Service) ListOrdered(ctx context.Context, ids []int64) ([]Animal, error) {
	if len(ids) == 0 {
		return []Animal{}, nil
	}
	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]Animal, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	out := make([]Animal, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Service) Like(ctx context.Context, id int64) (int, error) {
	if id <= 0 {
		return 0, ErrInvalidInput
	}
	return s.repo.AdjustLikes(ctx, id, 1)
}

func (s *Service) Unlike(ctx context.Context, id int64) (int, error) {
	if id <= 0 {
		return 0, ErrInvalidInput
	}
	return s.repo.AdjustLikes(ctx, id, -1)
}
