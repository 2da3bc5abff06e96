package memory

import (
	"context"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/admins"
)

type adminsRepo struct {
	s *Store
}

func NewAdminsRepo(s *Store) admins.Repository {
	return &adminsRepo{s: s}
}

func (r *adminsRepo) Create(ctx context.Context, a admins.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.admins {
		if existing.Username == a.Username {
			return apperrors.Conflict("username already exists")
		}
	}
	r.s.admins[a.ID] = a
	return nil
}

func (r *adminsRepo) GetByID(ctx context.Context, id string) (admins.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.admins[id]
	if !ok {
		return admins.Admin{}, apperrors.NotFound("admin")
	}
	return a, nil
}

func (r *adminsRepo) GetByUsername(ctx context.Context, username string) (admins.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return admins.Admin{}, apperrors.NotFound("admin")
}
