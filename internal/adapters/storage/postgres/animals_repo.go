package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-reels/internal/domain/animals"
)

// Tabla animals: id bigint PK (id de upstream), documentos en jsonb,
// lat/lon y organization_id nullables.
type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, organization_id,
	name, type, species, age, gender, size, status,
	breeds, colors, contact, photos, videos, video_url,
	lat, lon, like_count, last_seen_at, created_at`

func animalArgs(a animals.Animal) []any {
	return []any{
		a.ID,
		nullString(a.OrganizationID),
		a.Name,
		a.Type,
		a.Species,
		a.Age,
		a.Gender,
		a.Size,
		a.Status,
		a.Breeds,
		a.Colors,
		a.Contact,
		a.Photos,
		a.Videos,
		a.VideoURL,
		nullFloat(a.Lat),
		nullFloat(a.Lon),
		a.LastSeenAt,
		a.CreatedAt,
	}
}

func (r *AnimalsRepo) CreateIfAbsent(ctx context.Context, a animals.Animal) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (
			id, organization_id,
			name, type, species, age, gender, size, status,
			breeds, colors, contact, photos, videos, video_url,
			lat, lon, last_seen_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO NOTHING
	`, animalArgs(a)...)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *AnimalsRepo) Upsert(ctx context.Context, a animals.Animal) (bool, error) {
	var inserted bool
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO animals (
			id, organization_id,
			name, type, species, age, gender, size, status,
			breeds, colors, contact, photos, videos, video_url,
			lat, lon, last_seen_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO UPDATE SET
			organization_id = EXCLUDED.organization_id,
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			species = EXCLUDED.species,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			size = EXCLUDED.size,
			status = EXCLUDED.status,
			breeds = EXCLUDED.breeds,
			colors = EXCLUDED.colors,
			contact = EXCLUDED.contact,
			photos = EXCLUDED.photos,
			videos = EXCLUDED.videos,
			video_url = EXCLUDED.video_url,
			lat = COALESCE(EXCLUDED.lat, animals.lat),
			lon = COALESCE(EXCLUDED.lon, animals.lon),
			last_seen_at = GREATEST(animals.last_seen_at, EXCLUDED.last_seen_at)
		RETURNING (xmax = 0)
	`, animalArgs(a)...).Scan(&inserted)
	return inserted, err
}

func (r *AnimalsRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM animals WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// TouchSeen es un solo UPDATE por página; last_seen_at nunca retrocede.
func (r *AnimalsRepo) TouchSeen(ctx context.Context, ids []int64, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET last_seen_at = GREATEST(last_seen_at, $2)
		WHERE id = ANY($1)
	`, ids, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AnimalsRepo) ListLastSeenBetween(ctx context.Context, from, to time.Time, limit int) ([]animals.Animal, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE last_seen_at > $1 AND last_seen_at <= $2
		ORDER BY last_seen_at ASC, id ASC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnimals(rows)
}

// ApplyRevalidation confirma en una transacción todos los updates y bajas de una pasada.
func (r *AnimalsRepo) ApplyRevalidation(ctx context.Context, updates []animals.Animal, deletes []int64) error {
	if len(updates) == 0 && len(deletes) == 0 {
		return nil
	}
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, a := range updates {
			if _, err := tx.ExecContext(ctx, `
				UPDATE animals
				SET
					organization_id = $2,
					name = $3,
					type = $4,
					species = $5,
					age = $6,
					gender = $7,
					size = $8,
					status = $9,
					breeds = $10,
					colors = $11,
					contact = $12,
					photos = $13,
					videos = $14,
					video_url = $15,
					lat = COALESCE($16, lat),
					lon = COALESCE($17, lon),
					last_seen_at = GREATEST(last_seen_at, $18)
				WHERE id = $1
			`, animalArgs(a)[:18]...); err != nil {
				return err
			}
		}
		if len(deletes) > 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM animals WHERE id = ANY($1)`, deletes); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AnimalsRepo) DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE last_seen_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AnimalsRepo) ListDedupRows(ctx context.Context) ([]animals.DedupRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, breeds
		FROM animals
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.DedupRow, 0)
	for rows.Next() {
		var d animals.DedupRow
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &d.Breeds); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AnimalsRepo) GetByIDs(ctx context.Context, ids []int64) ([]animals.Animal, error) {
	if len(ids) == 0 {
		return []animals.Animal{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnimals(rows)
}

// CandidatesInBox es el pre-filtro rectangular; la distancia real la calcula el feed.
func (r *AnimalsRepo) CandidatesInBox(ctx context.Context, box animals.Box, exclude []int64) ([]animals.Candidate, error) {
	if exclude == nil {
		exclude = []int64{}
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, lat, lon
		FROM animals
		WHERE lat IS NOT NULL AND lon IS NOT NULL
			AND lat BETWEEN $1 AND $2
			AND lon BETWEEN $3 AND $4
			AND NOT (id = ANY($5))
		ORDER BY id ASC
	`, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon, exclude)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Candidate, 0)
	for rows.Next() {
		var c animals.Candidate
		if err := rows.Scan(&c.ID, &c.Lat, &c.Lon); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) RandomIDs(ctx context.Context, n int, exclude []int64) ([]int64, error) {
	if n <= 0 {
		return []int64{}, nil
	}
	if exclude == nil {
		exclude = []int64{}
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id
		FROM animals
		WHERE NOT (id = ANY($1))
		ORDER BY random()
		LIMIT $2
	`, exclude, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0, n)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) AdjustLikes(ctx context.Context, id int64, delta int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		UPDATE animals
		SET like_count = GREATEST(like_count + $2, 0)
		WHERE id = $1
		RETURNING like_count
	`, id, delta).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, animals.ErrNotFound
	}
	return n, err
}

func scanAnimals(rows *sql.Rows) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0)
	for rows.Next() {
		var (
			a   animals.Animal
			org sql.NullString
			lat sql.NullFloat64
			lon sql.NullFloat64
		)
		if err := rows.Scan(
			&a.ID,
			&org,
			&a.Name,
			&a.Type,
			&a.Species,
			&a.Age,
			&a.Gender,
			&a.Size,
			&a.Status,
			&a.Breeds,
			&a.Colors,
			&a.Contact,
			&a.Photos,
			&a.Videos,
			&a.VideoURL,
			&lat,
			&lon,
			&a.LikeCount,
			&a.LastSeenAt,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}

		if org.Valid {
			s := org.String
			a.OrganizationID = &s
		}
		if lat.Valid && lon.Valid {
			la, lo := lat.Float64, lon.Float64
			a.Lat, a.Lon = &la, &lo
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
