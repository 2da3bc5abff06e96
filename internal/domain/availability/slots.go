package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vet-booking/internal/apperrors"
)

const (
	ConsultationMinutes = 30
	GroomingMinutes     = 120

	DateLayout = "2006-01-02"
)

// SlotTime es la hora de inicio de un slot, en minutos desde medianoche (hora local de la clínica).
type SlotTime int

func NewSlotTime(hour, minute int) SlotTime {
	return SlotTime(hour*60 + minute)
}

func (s SlotTime) Hour() int   { return int(s) / 60 }
func (s SlotTime) Minute() int { return int(s) % 60 }

func (s SlotTime) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour(), s.Minute())
}

// On combina el slot con una fecha civil.
func (s SlotTime) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, s.Hour(), s.Minute(), 0, 0, date.Location())
}

func (s SlotTime) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SlotTime) UnmarshalText(b []byte) error {
	v, err := ParseSlotTime(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSlotTime acepta "HH:MM" (24h).
func ParseSlotTime(raw string) (SlotTime, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, apperrors.Validation("time must be HH:MM")
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, apperrors.Validation("time must be HH:MM")
	}
	return NewSlotTime(h, m), nil
}

// SlotOf devuelve el slot (minuto del día) de t.
func SlotOf(t time.Time) SlotTime {
	return NewSlotTime(t.Hour(), t.Minute())
}

// ParseDate valida una fecha YYYY-MM-DD y la devuelve a medianoche UTC.
// Las fechas de citas son civiles; no cargan zona horaria.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperrors.Validation("date is required")
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, apperrors.Validation("date must be YYYY-MM-DD")
	}
	return d, nil
}

// CivilDate trunca t a su fecha (en la zona de t) y la devuelve a medianoche UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Catálogo de slots por clase de duración. Orden de jornada: mañana y tarde.
var (
	consultationSlots = []SlotTime{
		NewSlotTime(9, 0), NewSlotTime(9, 30),
		NewSlotTime(10, 0), NewSlotTime(10, 30),
		NewSlotTime(11, 0), NewSlotTime(11, 30),
		NewSlotTime(12, 0),
		NewSlotTime(15, 0), NewSlotTime(15, 30),
		NewSlotTime(16, 0), NewSlotTime(16, 30),
		NewSlotTime(17, 0),
	}

	groomingSlots = []SlotTime{
		NewSlotTime(9, 0),
		NewSlotTime(11, 0),
		NewSlotTime(15, 0),
		NewSlotTime(17, 0),
	}
)

// SlotsFor devuelve los slots candidatos para una duración.
// Una duración sin catálogo es un error de configuración, nunca una lista vacía.
func SlotsFor(durationMinutes int) ([]SlotTime, error) {
	var src []SlotTime
	switch durationMinutes {
	case ConsultationMinutes:
		src = consultationSlots
	case GroomingMinutes:
		src = groomingSlots
	default:
		return nil, apperrors.Configuration("no slot catalog for duration %d minutes", durationMinutes)
	}

	out := make([]SlotTime, len(src))
	copy(out, src)
	return out, nil
}

// IsSupportedDuration se usa al crear/editar servicios.
func IsSupportedDuration(durationMinutes int) bool {
	_, err := SlotsFor(durationMinutes)
	return err == nil
}

// InCatalog indica si slot es un inicio válido para la duración.
func InCatalog(durationMinutes int, slot SlotTime) (bool, error) {
	slots, err := SlotsFor(durationMinutes)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s == slot {
			return true, nil
		}
	}
	return false, nil
}
