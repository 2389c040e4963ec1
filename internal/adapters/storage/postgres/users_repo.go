package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-reels/internal/domain/users"

	"github.com/google/uuid"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) GetOrCreate(ctx context.Context, clientID uuid.UUID, at time.Time) (users.User, error) {
	// el DO UPDATE no-op hace que RETURNING devuelva la fila existente
	var u users.User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (client_id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (client_id) DO UPDATE SET client_id = EXCLUDED.client_id
		RETURNING id, client_id, created_at
	`, clientID.String(), at).Scan(&u.ID, &u.ClientID, &u.CreatedAt)
	return u, err
}

// SeenRepo: seen_marks (user_id, animal_id) PK, animal_id con ON DELETE CASCADE.
type SeenRepo struct {
	db *sql.DB
}

func NewSeenRepo(db *sql.DB) *SeenRepo {
	return &SeenRepo{db: db}
}

func (r *SeenRepo) Add(ctx context.Context, userID int64, animalIDs []int64, at time.Time) error {
	if len(animalIDs) == 0 {
		return nil
	}
	// solo ids que siguen existiendo; los repetidos los absorbe el ON CONFLICT
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO seen_marks (user_id, animal_id, seen_at)
		SELECT $1, a.id, $3
		FROM animals a
		WHERE a.id = ANY($2)
		ON CONFLICT (user_id, animal_id) DO NOTHING
	`, userID, animalIDs, at)
	return err
}

func (r *SeenRepo) ListAnimalIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT animal_id
		FROM seen_marks
		WHERE user_id = $1
		ORDER BY animal_id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
