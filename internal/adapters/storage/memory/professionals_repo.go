package memory

import (
	"context"
	"sort"
	"strings"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/professionals"
)

type professionalsRepo struct {
	s *Store
}

func NewProfessionalsRepo(s *Store) professionals.Repository {
	return &professionalsRepo{s: s}
}

func (r *professionalsRepo) Create(ctx context.Context, p professionals.Professional) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return apperrors.Validation("professional id required")
	}
	if _, exists := r.s.professionals[p.ID]; exists {
		return apperrors.Conflict("professional already exists")
	}
	if _, ok := r.s.services[p.ServiceID]; !ok {
		return apperrors.Validation("serviceId does not reference an existing service")
	}
	r.s.professionals[p.ID] = p
	return nil
}

func (r *professionalsRepo) Update(ctx context.Context, p professionals.Professional) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.professionals[p.ID]; !exists {
		return apperrors.NotFound("professional")
	}
	r.s.professionals[p.ID] = p
	return nil
}

func (r *professionalsRepo) GetByID(ctx context.Context, id string) (professionals.Professional, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.professionals[id]
	if !ok {
		return professionals.Professional{}, apperrors.NotFound("professional")
	}
	return p, nil
}

func (r *professionalsRepo) List(ctx context.Context, f professionals.ListFilter) ([]professionals.Professional, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]professionals.Professional, 0)
	for _, p := range r.s.professionals {
		if f.ServiceID != "" && p.ServiceID != f.ServiceID {
			continue
		}
		if f.ActiveOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].FullName()) < strings.ToLower(out[j].FullName())
	})
	return out, nil
}

func (r *professionalsRepo) CountActive(ctx context.Context, serviceID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.activeProfessionalsLocked(serviceID), nil
}

func (s *Store) activeProfessionalsLocked(serviceID string) int {
	n := 0
	for _, p := range s.professionals {
		if p.Active && p.ServiceID == serviceID {
			n++
		}
	}
	return n
}
