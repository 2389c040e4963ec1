package memory

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"time"

	"pet-reels/internal/domain/animals"
)

type AnimalsRepo struct {
	s *Store
}

func (r *AnimalsRepo) CreateIfAbsent(ctx context.Context, a animals.Animal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if a.ID <= 0 {
		return false, errors.New("animal id required")
	}
	if _, exists := r.s.animals[a.ID]; exists {
		return false, nil
	}
	r.s.animals[a.ID] = a
	return true, nil
}

func (r *AnimalsRepo) Upsert(ctx context.Context, a animals.Animal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if a.ID <= 0 {
		return false, errors.New("animal id required")
	}
	cur, exists := r.s.animals[a.ID]
	if !exists {
		r.s.animals[a.ID] = a
		return true, nil
	}
	r.s.animals[a.ID] = merge(cur, a)
	return false, nil
}

// merge pisa los campos de upstream. Conserva likes, alta, coordenadas
// conocidas y un last_seen_at que nunca retrocede.
func merge(cur, in animals.Animal) animals.Animal {
	in.LikeCount = cur.LikeCount
	in.CreatedAt = cur.CreatedAt
	if in.LastSeenAt.Before(cur.LastSeenAt) {
		in.LastSeenAt = cur.LastSeenAt
	}
	if !in.HasLocation() {
		in.Lat, in.Lon = cur.Lat, cur.Lon
	}
	return in
}

func (r *AnimalsRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.s.animals[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *AnimalsRepo) TouchSeen(ctx context.Context, ids []int64, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, id := range ids {
		a, ok := r.s.animals[id]
		if !ok {
			continue
		}
		if at.After(a.LastSeenAt) {
			a.LastSeenAt = at
			r.s.animals[id] = a
		}
		n++
	}
	return n, nil
}

func (r *AnimalsRepo) ListLastSeenBetween(ctx context.Context, from, to time.Time, limit int) ([]animals.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.s.animals {
		if a.LastSeenAt.After(from) && !a.LastSeenAt.After(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastSeenAt.Equal(out[j].LastSeenAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastSeenAt.Before(out[j].LastSeenAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnimalsRepo) ApplyRevalidation(ctx context.Context, updates []animals.Animal, deletes []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range updates {
		cur, ok := r.s.animals[a.ID]
		if !ok {
			continue
		}
		r.s.animals[a.ID] = merge(cur, a)
	}
	for _, id := range deletes {
		r.deleteLocked(id)
	}
	return nil
}

func (r *AnimalsRepo) DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, a := range r.s.animals {
		if a.LastSeenAt.Before(cutoff) {
			r.deleteLocked(id)
			n++
		}
	}
	return n, nil
}

func (r *AnimalsRepo) ListDedupRows(ctx context.Context) ([]animals.DedupRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]animals.DedupRow, 0, len(r.s.animals))
	for _, a := range r.s.animals {
		out = append(out, animals.DedupRow{ID: a.ID, Name: a.Name, Type: a.Type, Breeds: a.Breeds})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AnimalsRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := r.s.animals[id]; ok {
			r.deleteLocked(id)
			n++
		}
	}
	return n, nil
}

// las marcas de visto se van con el animal (igual que el ON DELETE CASCADE)
func (r *AnimalsRepo) deleteLocked(id int64) {
	delete(r.s.animals, id)
	for _, marks := range r.s.seen {
		delete(marks, id)
	}
}

func (r *AnimalsRepo) GetByIDs(ctx context.Context, ids []int64) ([]animals.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]animals.Animal, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.s.animals[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AnimalsRepo) CandidatesInBox(ctx context.Context, box animals.Box, exclude []int64) ([]animals.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	skip := toSet(exclude)
	out := make([]animals.Candidate, 0)
	for _, a := range r.s.animals {
		if !a.HasLocation() || skip[a.ID] {
			continue
		}
		lat, lon := *a.Lat, *a.Lon
		if lat < box.MinLat || lat > box.MaxLat || lon < box.MinLon || lon > box.MaxLon {
			continue
		}
		out = append(out, animals.Candidate{ID: a.ID, Lat: lat, Lon: lon})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AnimalsRepo) RandomIDs(ctx context.Context, n int, exclude []int64) ([]int64, error) {
	if n <= 0 {
		return []int64{}, nil
	}

	r.s.mu.RLock()
	skip := toSet(exclude)
	pool := make([]int64, 0, len(r.s.animals))
	for id := range r.s.animals {
		if !skip[id] {
			pool = append(pool, id)
		}
	}
	r.s.mu.RUnlock()

	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool, nil
}

func (r *AnimalsRepo) AdjustLikes(ctx context.Context, id int64, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.animals[id]
	if !ok {
		return 0, animals.ErrNotFound
	}
	a.LikeCount += delta
	if a.LikeCount < 0 {
		a.LikeCount = 0
	}
	r.s.animals[id] = a
	return a.LikeCount, nil
}

func toSet(ids []int64) map[int64]bool {
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
