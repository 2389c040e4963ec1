package users

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// GetOrCreate crea el usuario en el primer contacto.
	GetOrCreate(ctx context.Context, clientID uuid.UUID, at time.Time) (User, error)
}

// SeenRepository guarda marcas append-only (usuario, animal). Las repetidas se ignoran.
type SeenRepository interface {
	Add(ctx context.Context, userID int64, animalIDs []int64, at time.Time) error
	ListAnimalIDs(ctx context.Context, userID int64) ([]int64, error)
}
