package memory

import (
	"context"
	"sort"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/appointments"
	"vet-booking/internal/domain/availability"
	"vet-booking/internal/domain/clients"
)

type appointmentsRepo struct {
	s *Store
}

func NewAppointmentsRepo(s *Store) appointments.Repository {
	return &appointmentsRepo{s: s}
}

func (r *appointmentsRepo) Book(ctx context.Context, c clients.Client, a appointments.Appointment) (appointments.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.appointments[a.ID]; exists {
		return appointments.Appointment{}, apperrors.Conflict("appointment already exists")
	}
	if err := r.s.reserveLocked(a); err != nil {
		return appointments.Appointment{}, err
	}

	// Cliente y cita bajo el mismo lock: o quedan los dos o ninguno.
	a.ClientID = r.s.upsertClientLocked(c)
	r.s.appointments[a.ID] = a
	return a, nil
}

func (r *appointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return appointments.Appointment{}, apperrors.NotFound("appointment")
	}
	return a, nil
}

func (r *appointmentsRepo) GetDetail(ctx context.Context, id string) (appointments.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return appointments.Detail{}, apperrors.NotFound("appointment")
	}
	return r.s.detailLocked(a), nil
}

func (r *appointmentsRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]appointments.Detail, 0)
	for _, a := range r.s.appointments {
		if f.Match(a) {
			out = append(out, r.s.detailLocked(a))
		}
	}

	// Orden de agenda: fecha, hora, creación.
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].Appointment, out[j].Appointment
		if !ai.Date.Equal(aj.Date) {
			return ai.Date.Before(aj.Date)
		}
		if ai.Slot != aj.Slot {
			return ai.Slot < aj.Slot
		}
		return ai.CreatedAt.Before(aj.CreatedAt)
	})
	return out, nil
}

func (r *appointmentsRepo) Update(ctx context.Context, prev, next appointments.Appointment, reserve bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, exists := r.s.appointments[next.ID]
	if !exists {
		return apperrors.NotFound("appointment")
	}
	if !stored.SameState(prev) {
		return appointments.StaleError()
	}
	if reserve {
		if err := r.s.reserveLocked(next); err != nil {
			return err
		}
	}
	r.s.appointments[next.ID] = next
	return nil
}

func (r *appointmentsRepo) OccupiedSlots(ctx context.Context, q availability.OccupancyQuery) (map[availability.SlotTime]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[availability.SlotTime]int)
	for _, a := range r.s.appointments {
		if !a.Status.Occupies() || a.ServiceID != q.ServiceID || !availability.SameDate(a.Date, q.Date) {
			continue
		}
		if q.ProfessionalID != "" && a.ProfessionalID != q.ProfessionalID {
			continue
		}
		out[a.Slot]++
	}
	return out, nil
}

// reserveLocked verifica cupo para a (sin contarse a sí misma): el slot sigue en el catálogo
// de la duración guardada, citas activas del slot < profesionales activos, y el profesional asignado libre.
func (s *Store) reserveLocked(a appointments.Appointment) error {
	svc, ok := s.services[a.ServiceID]
	if !ok {
		return apperrors.NotFound("service")
	}
	offered, err := availability.InCatalog(svc.DurationMinutes, a.Slot)
	if err != nil {
		return err
	}
	if !offered {
		return apperrors.Conflict("time %s is no longer offered for this service", a.Slot)
	}

	capacity := s.activeProfessionalsLocked(a.ServiceID)

	taken := 0
	for _, other := range s.appointments {
		if other.ID == a.ID || !other.Status.Occupies() {
			continue
		}
		if !availability.SameDate(other.Date, a.Date) || other.Slot != a.Slot {
			continue
		}
		if a.ProfessionalID != "" && other.ProfessionalID == a.ProfessionalID {
			return apperrors.Conflict("professional already has an appointment at %s", a.Slot)
		}
		if other.ServiceID == a.ServiceID {
			taken++
		}
	}

	if taken >= capacity {
		return apperrors.Conflict("slot %s is no longer available", a.Slot)
	}
	return nil
}

func (s *Store) detailLocked(a appointments.Appointment) appointments.Detail {
	d := appointments.Detail{Appointment: a}
	if c, ok := s.clients[a.ClientID]; ok {
		d.ClientName = c.FullName()
		d.ClientTaxID = c.TaxID
		d.ClientPhone = c.Phone
		d.ClientEmail = c.Email
		d.PetName = c.Pet.Name
	}
	if svc, ok := s.services[a.ServiceID]; ok {
		d.ServiceName = svc.Name
	}
	if p, ok := s.professionals[a.ProfessionalID]; ok {
		d.ProfessionalName = p.FullName()
	}
	return d
}
