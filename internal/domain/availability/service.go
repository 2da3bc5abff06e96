package availability

import (
	"context"
	"strings"
	"time"

	"vet-booking/internal/apperrors"
)

// OccupancyQuery filtra citas activas (pending/confirmed) de una fecha.
// ProfessionalID vacío => todas las citas del servicio.
type OccupancyQuery struct {
	Date           time.Time
	ServiceID      string
	ProfessionalID string
}

// OccupancyReader devuelve slot -> cantidad de citas activas. Un slot ausente vale 0.
// Un error NO equivale a "sin citas".
type OccupancyReader interface {
	OccupiedSlots(ctx context.Context, q OccupancyQuery) (map[SlotTime]int, error)
}

// CapacityResolver resuelve cuántos recursos pueden atender un slot en paralelo.
type CapacityResolver interface {
	ServiceCapacity(ctx context.Context, serviceID string) (int, error)
	ProfessionalCapacity(ctx context.Context, serviceID, professionalID string) (int, error)
}

// DurationLookup evita importar el paquete services (services ya importa availability).
type DurationLookup interface {
	DurationOf(ctx context.Context, serviceID string) (int, error)
}

type Service struct {
	durations DurationLookup
	occupancy OccupancyReader
	capacity  CapacityResolver
}

func NewService(durations DurationLookup, occupancy OccupancyReader, capacity CapacityResolver) *Service {
	return &Service{
		durations: durations,
		occupancy: occupancy,
		capacity:  capacity,
	}
}

type Query struct {
	Date           string // YYYY-MM-DD
	ServiceID      string
	ProfessionalID string // opcional
}

// AvailableSlots calcula los slots reservables en orden de catálogo.
// La fecha se valida antes de tocar el store. Con ProfessionalID el resultado es la
// intersección del cupo del profesional y el del servicio.
func (s *Service) AvailableSlots(ctx context.Context, q Query) ([]SlotTime, error) {
	date, err := ParseDate(q.Date)
	if err != nil {
		return nil, err
	}
	serviceID := strings.TrimSpace(q.ServiceID)
	if serviceID == "" {
		return nil, apperrors.Validation("serviceId is required")
	}
	professionalID := strings.TrimSpace(q.ProfessionalID)

	duration, err := s.durations.DurationOf(ctx, serviceID)
	if err != nil {
		return nil, apperrors.Classify("resolve service duration", err)
	}
	candidates, err := SlotsFor(duration)
	if err != nil {
		return nil, err
	}

	var capacity int
	if professionalID != "" {
		capacity, err = s.capacity.ProfessionalCapacity(ctx, serviceID, professionalID)
	} else {
		capacity, err = s.capacity.ServiceCapacity(ctx, serviceID)
	}
	if err != nil {
		return nil, apperrors.Classify("resolve capacity", err)
	}

	// Sin recursos no hay nada reservable, aunque no existan citas.
	if capacity <= 0 {
		return []SlotTime{}, nil
	}

	occupied, err := s.occupancy.OccupiedSlots(ctx, OccupancyQuery{
		Date:           date,
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
	})
	if err != nil {
		return nil, apperrors.Classify("read occupancy", err)
	}

	slots := Filter(candidates, occupied, capacity)
	if professionalID == "" || len(slots) == 0 {
		return slots, nil
	}

	// Con profesional también manda el cupo del servicio: las citas sin profesional
	// asignado lo consumen igual y el store las cuenta al reservar.
	serviceCapacity, err := s.capacity.ServiceCapacity(ctx, serviceID)
	if err != nil {
		return nil, apperrors.Classify("resolve capacity", err)
	}
	serviceOccupied, err := s.occupancy.OccupiedSlots(ctx, OccupancyQuery{Date: date, ServiceID: serviceID})
	if err != nil {
		return nil, apperrors.Classify("read occupancy", err)
	}
	return Filter(slots, serviceOccupied, serviceCapacity), nil
}

// Occupancy expone el mapa crudo slot -> ocupadas (vista "horas ocupadas" del admin).
func (s *Service) Occupancy(ctx context.Context, rawDate, serviceID string) (map[SlotTime]int, error) {
	date, err := ParseDate(rawDate)
	if err != nil {
		return nil, err
	}
	serviceID = strings.TrimSpace(serviceID)
	if serviceID == "" {
		return nil, apperrors.Validation("serviceId is required")
	}

	if _, err := s.durations.DurationOf(ctx, serviceID); err != nil {
		return nil, apperrors.Classify("resolve service duration", err)
	}

	occupied, err := s.occupancy.OccupiedSlots(ctx, OccupancyQuery{Date: date, ServiceID: serviceID})
	if err != nil {
		return nil, apperrors.Classify("read occupancy", err)
	}
	return occupied, nil
}

// Filter deja los candidatos con ocupación < capacidad, sin reordenar.
func Filter(candidates []SlotTime, occupied map[SlotTime]int, capacity int) []SlotTime {
	out := make([]SlotTime, 0, len(candidates))
	if capacity <= 0 {
		return out
	}
	for _, slot := range candidates {
		if occupied[slot] < capacity {
			out = append(out, slot)
		}
	}
	return out
}
