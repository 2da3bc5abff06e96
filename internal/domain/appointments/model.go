package appointments

import (
	"strings"
	"time"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/availability"
)

// Status define el ciclo de vida de una cita.
// @Enum pending, confirmed, cancelled
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(raw string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(raw))); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, nil
	default:
		return "", apperrors.Validation("status must be pending, confirmed or cancelled")
	}
}

// Occupies indica si la cita consume capacidad de su slot.
func (s Status) Occupies() bool {
	return s == StatusPending || s == StatusConfirmed
}

// transitions: pending -> confirmed | cancelled, confirmed -> cancelled. cancelled es terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition acepta from == to como no-op.
func CheckTransition(from, to Status) error {
	if from == to || CanTransition(from, to) {
		return nil
	}
	return apperrors.InvalidTransition(string(from), string(to))
}

// Appointment ocupa un slot de un servicio en una fecha.
// Date es la fecha civil (medianoche UTC); Slot la hora local de la clínica.
type Appointment struct {
	ID             string
	ClientID       string
	ServiceID      string
	ProfessionalID string // opcional

	Date   time.Time
	Slot   availability.SlotTime
	Status Status
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartsAt devuelve el instante de inicio en la zona de la clínica.
func (a Appointment) StartsAt(loc *time.Location) time.Time {
	y, m, d := a.Date.Date()
	return time.Date(y, m, d, a.Slot.Hour(), a.Slot.Minute(), 0, 0, loc)
}

// SameState compara lo que decide la ocupación: estado, fecha, slot y profesional.
func (a Appointment) SameState(b Appointment) bool {
	return a.Status == b.Status &&
		availability.SameDate(a.Date, b.Date) &&
		a.Slot == b.Slot &&
		a.ProfessionalID == b.ProfessionalID
}

// StaleError es el conflicto de una edición hecha sobre una lectura que ya no vale.
func StaleError() error {
	return apperrors.Conflict("appointment was changed by another request, reload and retry")
}

// Detail es la vista joined que usa el panel admin y los recordatorios.
type Detail struct {
	Appointment

	ClientName  string
	ClientTaxID string
	ClientPhone string
	ClientEmail string
	PetName     string

	ServiceName      string
	ProfessionalName string
}

type ListFilter struct {
	Date       *time.Time
	Status     Status // vacío => cualquiera
	ServiceID  string
	ActiveOnly bool // solo pending/confirmed
}

func (f ListFilter) Match(a Appointment) bool {
	if f.Date != nil && !availability.SameDate(*f.Date, a.Date) {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.ServiceID != "" && a.ServiceID != f.ServiceID {
		return false
	}
	if f.ActiveOnly && !a.Status.Occupies() {
		return false
	}
	return true
}
