package professionals

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-booking/internal/apperrors"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Professional
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Professional{}}
}

func (r *testRepo) Create(ctx context.Context, p Professional) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Professional) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperrors.NotFound("professional")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Professional, error) {
	p, ok := r.byID[id]
	if !ok {
		return Professional{}, apperrors.NotFound("professional")
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Professional, error) {
	out := make([]Professional, 0)
	for _, p := range r.byID {
		if f.ServiceID != "" && p.ServiceID != f.ServiceID {
			continue
		}
		if f.ActiveOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) CountActive(ctx context.Context, serviceID string) (int, error) {
	n := 0
	for _, p := range r.byID {
		if p.ServiceID == serviceID && p.Active {
			n++
		}
	}
	return n, nil
}

type testDurations map[string]int

func (d testDurations) DurationOf(ctx context.Context, serviceID string) (int, error) {
	v, ok := d[serviceID]
	if !ok {
		return 0, apperrors.NotFound("service")
	}
	return v, nil
}

func newTestService() *Service {
	svc := NewService(newTestRepo(), testDurations{"svc-consulta": 30, "svc-peluqueria": 120})
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_Create_RequiresExistingService(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), Input{FirstName: "Ana", ServiceID: "missing"})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	p, err := svc.Create(context.Background(), Input{FirstName: "Ana", LastName: "Rojas", Email: " ANA@Clinica.cl ", ServiceID: "svc-consulta"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !p.Active {
		t.Fatalf("expected new professional to be active")
	}
	if p.Email != "ana@clinica.cl" || p.FullName() != "Ana Rojas" {
		t.Fatalf("unexpected normalization: %+v", p)
	}
}

func TestService_Capacity_CountsOnlyActive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if n, err := svc.ServiceCapacity(ctx, "svc-consulta"); err != nil || n != 0 {
		t.Fatalf("empty capacity = %d, %v", n, err)
	}

	a, _ := svc.Create(ctx, Input{FirstName: "Ana", ServiceID: "svc-consulta"})
	_, _ = svc.Create(ctx, Input{FirstName: "Luis", ServiceID: "svc-consulta"})
	_, _ = svc.Create(ctx, Input{FirstName: "Sofía", ServiceID: "svc-peluqueria"})

	if n, _ := svc.ServiceCapacity(ctx, "svc-consulta"); n != 2 {
		t.Fatalf("expected capacity 2, got %d", n)
	}

	if err := svc.Deactivate(ctx, a.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if n, _ := svc.ServiceCapacity(ctx, "svc-consulta"); n != 1 {
		t.Fatalf("expected capacity 1 after deactivation, got %d", n)
	}

	// Desactivar dos veces no falla.
	if err := svc.Deactivate(ctx, a.ID); err != nil {
		t.Fatalf("second Deactivate error: %v", err)
	}
}

func TestService_ProfessionalCapacity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, _ := svc.Create(ctx, Input{FirstName: "Ana", ServiceID: "svc-consulta"})

	if n, err := svc.ProfessionalCapacity(ctx, "svc-consulta", p.ID); err != nil || n != 1 {
		t.Fatalf("expected 1, got %d, %v", n, err)
	}
	if n, _ := svc.ProfessionalCapacity(ctx, "svc-peluqueria", p.ID); n != 0 {
		t.Fatalf("professional of another service should have capacity 0, got %d", n)
	}
	if _, err := svc.ProfessionalCapacity(ctx, "svc-consulta", "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_ = svc.Deactivate(ctx, p.ID)
	if n, _ := svc.ProfessionalCapacity(ctx, "svc-consulta", p.ID); n != 0 {
		t.Fatalf("inactive professional should have capacity 0, got %d", n)
	}
}

func TestService_Update_KeepsActiveWhenOmitted(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, _ := svc.Create(ctx, Input{FirstName: "Ana", ServiceID: "svc-consulta"})

	updated, err := svc.Update(ctx, p.ID, Input{FirstName: "Ana María", ServiceID: "svc-peluqueria"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !updated.Active || updated.ServiceID != "svc-peluqueria" || updated.FirstName != "Ana María" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	inactive := false
	updated, err = svc.Update(ctx, p.ID, Input{FirstName: "Ana María", ServiceID: "svc-peluqueria", Active: &inactive})
	if err != nil || updated.Active {
		t.Fatalf("expected inactive professional, got %+v, %v", updated, err)
	}
}
