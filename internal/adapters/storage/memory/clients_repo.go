package memory

import (
	"context"
	"sort"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/clients"
)

type clientsRepo struct {
	s *Store
}

func NewClientsRepo(s *Store) clients.Repository {
	return &clientsRepo{s: s}
}

func (r *clientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.clients[id]
	if !ok {
		return clients.Client{}, apperrors.NotFound("client")
	}
	return c, nil
}

func (r *clientsRepo) GetByTaxID(ctx context.Context, taxID string) (clients.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.clientByTaxID[taxID]
	if !ok {
		return clients.Client{}, apperrors.NotFound("client")
	}
	return r.s.clients[id], nil
}

func (r *clientsRepo) List(ctx context.Context) ([]clients.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]clients.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *clientsRepo) Update(ctx context.Context, c clients.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.clients[c.ID]
	if !ok {
		return apperrors.NotFound("client")
	}
	if owner, taken := r.s.clientByTaxID[c.TaxID]; taken && owner != c.ID {
		return apperrors.Conflict("taxId already belongs to another client")
	}

	delete(r.s.clientByTaxID, current.TaxID)
	r.s.clientByTaxID[c.TaxID] = c.ID
	r.s.clients[c.ID] = c
	return nil
}

// Delete replica el ON DELETE RESTRICT de Postgres.
func (r *clientsRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clients[id]
	if !ok {
		return apperrors.NotFound("client")
	}
	for _, a := range r.s.appointments {
		if a.ClientID == id {
			return apperrors.Conflict("client has appointments")
		}
	}

	delete(r.s.clientByTaxID, c.TaxID)
	delete(r.s.clients, id)
	return nil
}

// upsertClientLocked reutiliza el cliente con el mismo TaxID o inserta c. Del existente solo
// se completan teléfono y email vacíos; nombre y mascota se corrigen por PUT /clients/{id}.
// Devuelve el ID efectivo.
func (s *Store) upsertClientLocked(c clients.Client) string {
	if id, ok := s.clientByTaxID[c.TaxID]; ok {
		existing := s.clients[id]
		filled := false
		if existing.Phone == "" && c.Phone != "" {
			existing.Phone = c.Phone
			filled = true
		}
		if existing.Email == "" && c.Email != "" {
			existing.Email = c.Email
			filled = true
		}
		if filled {
			existing.UpdatedAt = c.UpdatedAt
			s.clients[id] = existing
		}
		return id
	}

	s.clients[c.ID] = c
	s.clientByTaxID[c.TaxID] = c.ID
	return c.ID
}
