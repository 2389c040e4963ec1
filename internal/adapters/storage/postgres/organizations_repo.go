package postgres

import (
	"context"
	"database/sql"

	"pet-reels/internal/domain/animals"
)

type OrganizationsRepo struct {
	db *sql.DB
}

func NewOrganizationsRepo(db *sql.DB) *OrganizationsRepo {
	return &OrganizationsRepo{db: db}
}

func (r *OrganizationsRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM organizations WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *OrganizationsRepo) CreateIfAbsent(ctx context.Context, o animals.Organization) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, email, phone, city, state, website, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO NOTHING
	`,
		o.ID,
		o.Name,
		o.Email,
		o.Phone,
		o.City,
		o.State,
		o.Website,
		o.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *OrganizationsRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM organizations o
		WHERE NOT EXISTS (SELECT 1 FROM animals a WHERE a.organization_id = o.id)
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
