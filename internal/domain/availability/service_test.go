package availability

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"vet-booking/internal/apperrors"
)

// -------------------------
// Fakes
// -------------------------

type fakeDurations struct {
	byService map[string]int
	calls     int
}

func (f *fakeDurations) DurationOf(ctx context.Context, serviceID string) (int, error) {
	f.calls++
	d, ok := f.byService[serviceID]
	if !ok {
		return 0, apperrors.NotFound("service")
	}
	return d, nil
}

type fakeOccupancy struct {
	byService      map[SlotTime]int
	byProfessional map[SlotTime]int
	err            error
	lastQuery      OccupancyQuery
	queries        []OccupancyQuery
	calls          int
}

func (f *fakeOccupancy) OccupiedSlots(ctx context.Context, q OccupancyQuery) (map[SlotTime]int, error) {
	f.calls++
	f.lastQuery = q
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if q.ProfessionalID != "" {
		return f.byProfessional, nil
	}
	return f.byService, nil
}

type fakeCapacity struct {
	service      int
	professional int
	err          error
}

func (f *fakeCapacity) ServiceCapacity(ctx context.Context, serviceID string) (int, error) {
	return f.service, f.err
}

func (f *fakeCapacity) ProfessionalCapacity(ctx context.Context, serviceID, professionalID string) (int, error) {
	return f.professional, f.err
}

func newTestService(durations map[string]int, occ *fakeOccupancy, capacity *fakeCapacity) (*Service, *fakeDurations) {
	d := &fakeDurations{byService: durations}
	return NewService(d, occ, capacity), d
}

// -------------------------
// Catálogo
// -------------------------

func TestSlotsFor_CatalogSizes(t *testing.T) {
	dense, err := SlotsFor(ConsultationMinutes)
	if err != nil {
		t.Fatalf("SlotsFor(30) error: %v", err)
	}
	if len(dense) != len(consultationSlots) || len(dense) != 12 {
		t.Fatalf("expected 12 consultation slots, got %d", len(dense))
	}

	sparse, err := SlotsFor(GroomingMinutes)
	if err != nil {
		t.Fatalf("SlotsFor(120) error: %v", err)
	}
	if len(sparse) != 4 {
		t.Fatalf("expected 4 grooming slots, got %d", len(sparse))
	}
}

func TestSlotsFor_UnknownDurationIsConfigurationError(t *testing.T) {
	slots, err := SlotsFor(45)
	if !errors.Is(err, apperrors.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if slots != nil {
		t.Fatalf("expected nil slots, got %v", slots)
	}
}

func TestSlotsFor_ReturnsCopy(t *testing.T) {
	a, _ := SlotsFor(ConsultationMinutes)
	a[0] = NewSlotTime(23, 59)

	b, _ := SlotsFor(ConsultationMinutes)
	if b[0] != NewSlotTime(9, 0) {
		t.Fatalf("catalog was mutated through returned slice: %v", b[0])
	}
}

func TestParseSlotTime(t *testing.T) {
	s, err := ParseSlotTime("09:30")
	if err != nil || s != NewSlotTime(9, 30) || s.String() != "09:30" {
		t.Fatalf("unexpected parse result %v %v", s, err)
	}
	for _, bad := range []string{"9:30", "24:00", "09:60", "0930", "ab:cd", ""} {
		if _, err := ParseSlotTime(bad); !errors.Is(err, apperrors.ErrValidation) {
			t.Fatalf("expected validation error for %q, got %v", bad, err)
		}
	}
}

// -------------------------
// Calculadora
// -------------------------

func TestAvailableSlots_ExcludesFullSlots(t *testing.T) {
	// duración 30, capacidad 1, una cita pending a las 09:00 en 2024-06-10
	occ := &fakeOccupancy{byService: map[SlotTime]int{NewSlotTime(9, 0): 1}}
	svc, _ := newTestService(map[string]int{"svc-1": 30}, occ, &fakeCapacity{service: 1})

	got, err := svc.AvailableSlots(context.Background(), Query{Date: "2024-06-10", ServiceID: "svc-1"})
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}

	if contains(got, NewSlotTime(9, 0)) {
		t.Fatalf("09:00 should be excluded, got %v", got)
	}
	if !contains(got, NewSlotTime(9, 30)) {
		t.Fatalf("09:30 should be included, got %v", got)
	}
	if len(got) != 11 {
		t.Fatalf("expected 11 slots, got %d", len(got))
	}
	if occ.lastQuery.Date.Format(DateLayout) != "2024-06-10" {
		t.Fatalf("occupancy queried with wrong date %v", occ.lastQuery.Date)
	}
}

func TestAvailableSlots_MatchesPredicateForAnyCapacity(t *testing.T) {
	occupied := map[SlotTime]int{
		NewSlotTime(9, 0):  3,
		NewSlotTime(9, 30): 2,
		NewSlotTime(10, 0): 1,
		NewSlotTime(17, 0): 5,
		NewSlotTime(13, 0): 9, // fuera de catálogo, se ignora
	}
	catalog, _ := SlotsFor(ConsultationMinutes)

	for capacity := 0; capacity <= 4; capacity++ {
		occ := &fakeOccupancy{byService: occupied}
		svc, _ := newTestService(map[string]int{"svc-1": 30}, occ, &fakeCapacity{service: capacity})

		got, err := svc.AvailableSlots(context.Background(), Query{Date: "2024-06-10", ServiceID: "svc-1"})
		if err != nil {
			t.Fatalf("capacity=%d: error %v", capacity, err)
		}

		want := make([]SlotTime, 0)
		for _, s := range catalog {
			if occupied[s] < capacity {
				want = append(want, s)
			}
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("capacity=%d: got %v want %v", capacity, got, want)
		}
	}
}

func TestAvailableSlots_ZeroCapacityIsEmpty(t *testing.T) {
	// Regresión: sin profesionales no se deben ofrecer todas las horas.
	occ := &fakeOccupancy{byService: map[SlotTime]int{}}
	svc, _ := newTestService(map[string]int{"svc-1": 30}, occ, &fakeCapacity{service: 0})

	got, err := svc.AvailableSlots(context.Background(), Query{Date: "2024-06-10", ServiceID: "svc-1"})
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no slots with zero capacity, got %v", got)
	}
	if got == nil {
		t.Fatalf("expected empty slice (serializes as []), got nil")
	}
}

func TestAvailableSlots_UnknownDurationPropagatesConfigurationError(t *testing.T) {
	occ := &fakeOccupancy{}
	svc, _ := newTestService(map[string]int{"svc-45": 45}, occ, &fakeCapacity{service: 3})

	got, err := svc.AvailableSlots(context.Background(), Query{Date: "2024-06-10", ServiceID: "svc-45"})
	if !errors.Is(err, apperrors.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v (slots=%v)", err, got)
	}
	if occ.calls != 0 {
		t.Fatalf("occupancy should not be read for a misconfigured service")
	}
}

func TestAvailableSlots_MalformedDateFailsBeforeStore(t *testing.T) {
	occ := &fakeOccupancy{}
	svc, durations := newTestService(map[string]int{"svc-1": 30}, occ, &fakeCapacity{service: 1})

	for _, bad := range []string{"", "2024-13-01", "10/06/2024", "2024-02-30"} {
		_, err := svc.AvailableSlots(context.Background(), Query{Date: bad, ServiceID: "svc-1"})
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Fatalf("date %q: expected ErrValidation, got %v", bad, err)
		}
	}
	if durations.calls != 0 || occ.calls != 0 {
		t.Fatalf("store touched on malformed date (durations=%d occupancy=%d)", durations.calls, occ.calls)
	}
}

func TestAvailableSlots_ProfessionalRestrictsOccupancy(t *testing.T) {
	occ := &fakeOccupancy{
		// el servicio tiene cupo a las 09:00, pero el profesional ya está tomado a las 09:30
		byService:      map[SlotTime]int{NewSlotTime(9, 0): 1, NewSlotTime(9, 30): 1},
		byProfessional: map[SlotTime]int{NewSlotTime(9, 30): 1},
	}
	svc, _ := newTestService(map[string]int{"svc-1": 30}, occ, &fakeCapacity{service: 2, professional: 1})

	got, err := svc.AvailableSlots(context.Background(), Query{Date: "2024-06-10", ServiceID: "svc-1", ProfessionalID: "pro-1"})
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(occ.queries) == 0 || occ.queries[0].ProfessionalID != "pro-1" {
		t.Fatalf("expected occupancy restricted to professional, got %+v", occ.queries)
	}
	if !contains(got, NewSlotTime(9, 0)) || contains(got, NewSlotTime(9, 30)) {
		t.Fatalf("unexpected professional slots %v", got)
	}
}

func TestAvailableSlots_ProfessionalRespectsServiceCapacity(t *testing.T) {
	// 09:00 está lleno por citas sin profesional asignado: el profesional está libre,
	// pero el store rechazaría la reserva, así que no se ofrece.
	occ := &fakeOccupancy{
		byService:      map[SlotTime]int{NewSlotTime(9, 0): 2},
		byProfessional: map[SlotTime]int{},
	}
	svc, _ := newTestService(map[string]int{"svc-1": 30}, occ, &fakeCapacity{service: 2, professional: 1})

	got, err := svc.AvailableSlots(context.Background(), Query{Date: "2024-06-10", ServiceID: "svc-1", ProfessionalID: "pro-1"})
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if contains(got, NewSlotTime(9, 0)) {
		t.Fatalf("09:00 is full for the service and should be excluded, got %v", got)
	}
	if len(got) != 11 {
		t.Fatalf("expected 11 slots, got %d (%v)", len(got), got)
	}
	if len(occ.queries) != 2 || occ.queries[1].ProfessionalID != "" {
		t.Fatalf("expected a service-wide occupancy read, got %+v", occ.queries)
	}
}

func TestAvailableSlots_StoreFailureIsNotEmpty(t *testing.T) {
	occ := &fakeOccupancy{err: errors.New("connection reset")}
	svc, _ := newTestService(map[string]int{"svc-1": 30}, occ, &fakeCapacity{service: 1})

	got, err := svc.AvailableSlots(context.Background(), Query{Date: "2024-06-10", ServiceID: "svc-1"})
	if !errors.Is(err, apperrors.ErrDataAccess) {
		t.Fatalf("expected ErrDataAccess, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil result on failure, got %v", got)
	}
}

func TestAvailableSlots_Idempotent(t *testing.T) {
	occ := &fakeOccupancy{byService: map[SlotTime]int{NewSlotTime(11, 0): 1}}
	svc, _ := newTestService(map[string]int{"svc-g": 120}, occ, &fakeCapacity{service: 1})

	q := Query{Date: "2024-06-10", ServiceID: "svc-g"}
	a, err1 := svc.AvailableSlots(context.Background(), q)
	b, err2 := svc.AvailableSlots(context.Background(), q)
	if err1 != nil || err2 != nil {
		t.Fatalf("errors: %v %v", err1, err2)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results, got %v and %v", a, b)
	}
	want := []SlotTime{NewSlotTime(9, 0), NewSlotTime(15, 0), NewSlotTime(17, 0)}
	if !reflect.DeepEqual(a, want) {
		t.Fatalf("got %v want %v", a, want)
	}
}

func TestAvailableSlots_UnknownServiceIsNotFound(t *testing.T) {
	svc, _ := newTestService(map[string]int{}, &fakeOccupancy{}, &fakeCapacity{service: 1})

	_, err := svc.AvailableSlots(context.Background(), Query{Date: "2024-06-10", ServiceID: "missing"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func contains(slots []SlotTime, s SlotTime) bool {
	for _, v := range slots {
		if v == s {
			return true
		}
	}
	return false
}
