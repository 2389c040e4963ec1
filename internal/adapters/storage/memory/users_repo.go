package memory

import (
	"context"
	"sort"
	"time"

	"pet-reels/internal/domain/users"

	"github.com/google/uuid"
)

type UsersRepo struct {
	s *Store
}

func (r *UsersRepo) GetOrCreate(ctx context.Context, clientID uuid.UUID, at time.Time) (users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[clientID]; ok {
		return u, nil
	}
	r.s.nextUserID++
	u := users.User{ID: r.s.nextUserID, ClientID: clientID, CreatedAt: at}
	r.s.users[clientID] = u
	return u, nil
}

type SeenRepo struct {
	s *Store
}

func (r *SeenRepo) Add(ctx context.Context, userID int64, animalIDs []int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	marks, ok := r.s.seen[userID]
	if !ok {
		marks = make(map[int64]time.Time)
		r.s.seen[userID] = marks
	}
	for _, id := range animalIDs {
		// solo animales que existen (FK en postgres); repetidos se ignoran
		if _, exists := r.s.animals[id]; !exists {
			continue
		}
		if _, dup := marks[id]; !dup {
			marks[id] = at
		}
	}
	return nil
}

func (r *SeenRepo) ListAnimalIDs(ctx context.Context, userID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]int64, 0, len(r.s.seen[userID]))
	for id := range r.s.seen[userID] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
