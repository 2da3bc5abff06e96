package memory

import (
	"context"
	"sort"

	"vet-booking/internal/domain/contacts"
)

type contactsRepo struct {
	s *Store
}

func NewContactsRepo(s *Store) contacts.Repository {
	return &contactsRepo{s: s}
}

func (r *contactsRepo) Create(ctx context.Context, m contacts.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.contacts[m.ID] = m
	return nil
}

func (r *contactsRepo) List(ctx context.Context) ([]contacts.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]contacts.Message, 0, len(r.s.contacts))
	for _, m := range r.s.contacts {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
