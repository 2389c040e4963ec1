package animals

import (
	"context"
	"time"
)

// Box es un rectángulo lat/lon usado como pre-filtro de distancia.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

type Repository interface {
	// Escrituras del pipeline. Todas idempotentes por ID.
	CreateIfAbsent(ctx context.Context, a Animal) (bool, error)
	Upsert(ctx context.Context, a Animal) (created bool, err error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	TouchSeen(ctx context.Context, ids []int64, at time.Time) (int64, error)
	ListLastSeenBetween(ctx context.Context, from, to time.Time, limit int) ([]Animal, error)
	// ApplyRevalidation confirma updates y deletes de una pasada en una sola transacción.
	ApplyRevalidation(ctx context.Context, updates []Animal, deletes []int64) error
	DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ListDedupRows(ctx context.Context) ([]DedupRow, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)

	// Lecturas del feed.
	GetByIDs(ctx context.Context, ids []int64) ([]Animal, error)
	CandidatesInBox(ctx context.Context, box Box, exclude []int64) ([]Candidate, error)
	RandomIDs(ctx context.Context, n int, exclude []int64) ([]int64, error)

	// AdjustLikes es la única escritura del lado feed. Nunca baja de 0.
	AdjustLikes(ctx context.Context, id int64, delta int) (int, error)
}

type OrganizationRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	CreateIfAbsent(ctx context.Context, o Organization) (bool, error)
	// DeleteOrphans borra organizaciones sin animales que las referencien.
	DeleteOrphans(ctx context.Context) (int64, error)
}
