package appointments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/availability"
	"vet-booking/internal/domain/clients"
)

type Service struct {
	repo      Repository
	durations availability.DurationLookup
	capacity  availability.CapacityResolver
	loc       *time.Location
	now       func() time.Time
}

// NewService: loc es la zona de la clínica (las horas del catálogo son locales).
func NewService(repo Repository, durations availability.DurationLookup, capacity availability.CapacityResolver, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      repo,
		durations: durations,
		capacity:  capacity,
		loc:       loc,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests end-to-end con fechas fijas).
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

type BookInput struct {
	Client clients.Input

	ServiceID      string
	ProfessionalID string
	Date           string // YYYY-MM-DD
	Time           string // HH:MM
	Notes          string
}

// Book es la única operación de reserva: cliente + cita en una sola unidad atómica.
func (s *Service) Book(ctx context.Context, in BookInput) (Appointment, error) {
	date, err := availability.ParseDate(in.Date)
	if err != nil {
		return Appointment{}, err
	}
	slot, err := availability.ParseSlotTime(in.Time)
	if err != nil {
		return Appointment{}, err
	}
	serviceID := strings.TrimSpace(in.ServiceID)
	if serviceID == "" {
		return Appointment{}, apperrors.Validation("serviceId is required")
	}
	professionalID := strings.TrimSpace(in.ProfessionalID)

	now := s.now()
	client, err := clients.New(in.Client, now)
	if err != nil {
		return Appointment{}, err
	}

	if err := s.checkSlot(ctx, serviceID, date, slot, now); err != nil {
		return Appointment{}, err
	}
	if professionalID != "" {
		if err := s.checkProfessional(ctx, serviceID, professionalID); err != nil {
			return Appointment{}, err
		}
	}

	a := Appointment{
		ID:             uuid.NewString(),
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
		Date:           date,
		Slot:           slot,
		Status:         StatusPending,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}

	booked, err := s.repo.Book(ctx, client, a)
	if err != nil {
		return Appointment{}, apperrors.Classify("book appointment", err)
	}
	return booked, nil
}

// UpdateInput: nil => no tocar. Al menos un campo es obligatorio.
type UpdateInput struct {
	Date   *string
	Time   *string
	Status *string
}

func (in UpdateInput) empty() bool {
	return in.Date == nil && in.Time == nil && in.Status == nil
}

// Update es la edición parcial del admin (reagendar y/o cambiar estado).
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Appointment, error) {
	if in.empty() {
		return Appointment{}, apperrors.Validation("no fields to update")
	}

	// Validar input antes de leer el store.
	var (
		newDate   *time.Time
		newSlot   *availability.SlotTime
		newStatus *Status
	)
	if in.Date != nil {
		d, err := availability.ParseDate(*in.Date)
		if err != nil {
			return Appointment{}, err
		}
		newDate = &d
	}
	if in.Time != nil {
		t, err := availability.ParseSlotTime(*in.Time)
		if err != nil {
			return Appointment{}, err
		}
		newSlot = &t
	}
	if in.Status != nil {
		st, err := ParseStatus(*in.Status)
		if err != nil {
			return Appointment{}, err
		}
		newStatus = &st
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	next := current
	if newDate != nil {
		next.Date = *newDate
	}
	if newSlot != nil {
		next.Slot = *newSlot
	}
	if newStatus != nil {
		if err := CheckTransition(current.Status, *newStatus); err != nil {
			return Appointment{}, err
		}
		next.Status = *newStatus
	}

	moved := !availability.SameDate(next.Date, current.Date) || next.Slot != current.Slot
	if !moved && next.Status == current.Status {
		return current, nil
	}

	if moved {
		if current.Status == StatusCancelled {
			return Appointment{}, apperrors.InvalidTransition(string(StatusCancelled), "rescheduled")
		}
		if err := s.checkSlot(ctx, next.ServiceID, next.Date, next.Slot, s.now()); err != nil {
			return Appointment{}, err
		}
		if next.ProfessionalID != "" {
			if err := s.checkProfessional(ctx, next.ServiceID, next.ProfessionalID); err != nil {
				return Appointment{}, err
			}
		}
	}

	next.UpdatedAt = s.now().UTC()
	reserve := moved && next.Status.Occupies()
	if err := s.repo.Update(ctx, current, next, reserve); err != nil {
		return Appointment{}, apperrors.Classify("update appointment", err)
	}
	return next, nil
}

// Cancel es el DELETE del admin: la cita queda cancelled, no se borra.
func (s *Service) Cancel(ctx context.Context, id string) (Appointment, error) {
	st := string(StatusCancelled)
	return s.Update(ctx, id, UpdateInput{Status: &st})
}

// ClientCancel permite al cliente cancelar su propia cita probando el RUT.
// Un RUT que no coincide responde NotFound para no revelar citas ajenas.
func (s *Service) ClientCancel(ctx context.Context, id, rawTaxID string) (Appointment, error) {
	taxID, err := clients.NormalizeTaxID(rawTaxID)
	if err != nil {
		return Appointment{}, err
	}

	d, err := s.GetDetail(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if d.ClientTaxID != taxID {
		return Appointment{}, apperrors.NotFound("appointment")
	}
	return s.Cancel(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, apperrors.Classify("get appointment", err)
	}
	return a, nil
}

func (s *Service) GetDetail(ctx context.Context, id string) (Detail, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return Detail{}, apperrors.Classify("get appointment", err)
	}
	return d, nil
}

type ListQuery struct {
	Date      string
	Status    string
	ServiceID string
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Detail, error) {
	var f ListFilter
	if strings.TrimSpace(q.Date) != "" {
		d, err := availability.ParseDate(q.Date)
		if err != nil {
			return nil, err
		}
		f.Date = &d
	}
	if strings.TrimSpace(q.Status) != "" {
		st, err := ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	f.ServiceID = strings.TrimSpace(q.ServiceID)

	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperrors.Classify("list appointments", err)
	}
	return items, nil
}

// Upcoming devuelve las citas activas de una fecha (recordatorios).
func (s *Service) Upcoming(ctx context.Context, date time.Time) ([]Detail, error) {
	d := availability.CivilDate(date)
	items, err := s.repo.List(ctx, ListFilter{Date: &d, ActiveOnly: true})
	if err != nil {
		return nil, apperrors.Classify("list upcoming appointments", err)
	}
	return items, nil
}

// Location es la zona horaria de la clínica.
func (s *Service) Location() *time.Location {
	return s.loc
}

// checkSlot: el slot debe existir en el catálogo del servicio y no estar en el pasado.
func (s *Service) checkSlot(ctx context.Context, serviceID string, date time.Time, slot availability.SlotTime, now time.Time) error {
	duration, err := s.durations.DurationOf(ctx, serviceID)
	if err != nil {
		return apperrors.Classify("resolve service duration", err)
	}
	ok, err := availability.InCatalog(duration, slot)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Validation("time %s is not offered for this service", slot)
	}

	startsAt := Appointment{Date: date, Slot: slot}.StartsAt(s.loc)
	if !startsAt.After(now) {
		return apperrors.Validation("appointment time must be in the future")
	}
	return nil
}

func (s *Service) checkProfessional(ctx context.Context, serviceID, professionalID string) error {
	n, err := s.capacity.ProfessionalCapacity(ctx, serviceID, professionalID)
	if err != nil {
		return apperrors.Classify("resolve professional", err)
	}
	if n <= 0 {
		return apperrors.Validation("professional is inactive or does not serve this service")
	}
	return nil
}
