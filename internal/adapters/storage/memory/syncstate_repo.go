package memory

import (
	"context"
	"time"
)

// SyncStateRepo guarda los timestamps de progreso del pipeline.
type SyncStateRepo struct {
	s *Store
}

// GetTime devuelve el cero si la clave no existe.
func (r *SyncStateRepo) GetTime(ctx context.Context, key string) (time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.state[key], nil
}

func (r *SyncStateRepo) SetTime(ctx context.Context, key string, t time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.state[key] = t.UTC()
	return nil
}
