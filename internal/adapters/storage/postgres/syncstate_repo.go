package postgres

import (
	"context"
	"database/sql"
	"time"
)

// SyncStateRepo: tabla sync_state (key text PK, value timestamptz).
type SyncStateRepo struct {
	db *sql.DB
}

func NewSyncStateRepo(db *sql.DB) *SyncStateRepo {
	return &SyncStateRepo{db: db}
}

func (r *SyncStateRepo) GetTime(ctx context.Context, key string) (time.Time, error) {
	var t time.Time
	err := r.db.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = $1`, key).Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (r *SyncStateRepo) SetTime(ctx context.Context, key string, t time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, t.UTC())
	return err
}
