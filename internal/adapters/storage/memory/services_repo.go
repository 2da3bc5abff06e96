package memory

import (
	"context"
	"sort"
	"strings"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/services"
)

type servicesRepo struct {
	s *Store
}

func NewServicesRepo(s *Store) services.Repository {
	return &servicesRepo{s: s}
}

func (r *servicesRepo) Create(ctx context.Context, svc services.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(svc.ID) == "" {
		return apperrors.Validation("service id required")
	}
	if _, exists := r.s.services[svc.ID]; exists {
		return apperrors.Conflict("service already exists")
	}
	r.s.services[svc.ID] = svc
	return nil
}

func (r *servicesRepo) Update(ctx context.Context, svc services.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, exists := r.s.services[svc.ID]
	if !exists {
		return apperrors.NotFound("service")
	}
	if current.DurationMinutes != svc.DurationMinutes && r.s.serviceBookedLocked(svc.ID) {
		return apperrors.Conflict("durationMinutes cannot change while appointments reference the service")
	}
	r.s.services[svc.ID] = svc
	return nil
}

func (r *servicesRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.services[id]; !exists {
		return apperrors.NotFound("service")
	}
	if r.s.serviceInUseLocked(id) {
		return apperrors.Conflict("service is referenced by appointments or professionals")
	}
	delete(r.s.services, id)
	return nil
}

func (r *servicesRepo) GetByID(ctx context.Context, id string) (services.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	svc, ok := r.s.services[id]
	if !ok {
		return services.Service{}, apperrors.NotFound("service")
	}
	return svc, nil
}

func (r *servicesRepo) List(ctx context.Context) ([]services.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]services.Service, 0, len(r.s.services))
	for _, svc := range r.s.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// serviceBookedLocked solo mira citas: es lo que fija la duración.
func (s *Store) serviceBookedLocked(id string) bool {
	for _, a := range s.appointments {
		if a.ServiceID == id {
			return true
		}
	}
	return false
}

// serviceInUseLocked replica las FK de Postgres (appointments y professionals con RESTRICT).
func (s *Store) serviceInUseLocked(id string) bool {
	if s.serviceBookedLocked(id) {
		return true
	}
	for _, p := range s.professionals {
		if p.ServiceID == id {
			return true
		}
	}
	return false
}
