package memory

import (
	"context"
	"errors"
	"strings"

	"pet-reels/internal/domain/animals"
)

type OrganizationsRepo struct {
	s *Store
}

func (r *OrganizationsRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.orgs[id]
	return ok, nil
}

func (r *OrganizationsRepo) CreateIfAbsent(ctx context.Context, o animals.Organization) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return false, errors.New("organization id required")
	}
	if _, exists := r.s.orgs[o.ID]; exists {
		return false, nil
	}
	r.s.orgs[o.ID] = o
	return true, nil
}

func (r *OrganizationsRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	used := make(map[string]bool, len(r.s.orgs))
	for _, a := range r.s.animals {
		if a.OrganizationID != nil {
			used[*a.OrganizationID] = true
		}
	}

	var n int64
	for id := range r.s.orgs {
		if !used[id] {
			delete(r.s.orgs, id)
			n++
		}
	}
	return n, nil
}

// Get es solo para tests y debugging.
func (r *OrganizationsRepo) Get(id string) (animals.Organization, bool) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orgs[id]
	return o, ok
}
