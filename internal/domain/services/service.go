package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/availability"
)

// Manager es el caso de uso del módulo (Service ya es la entidad).
type Manager struct {
	repo Repository
	now  func() time.Time
}

func NewManager(repo Repository) *Manager {
	return &Manager{
		repo: repo,
		now:  time.Now,
	}
}

type Input struct {
	Name            string
	Description     string
	DurationMinutes int
	Price           decimal.Decimal
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.Validation("name is required")
	}
	if !availability.IsSupportedDuration(in.DurationMinutes) {
		return apperrors.Validation("durationMinutes must be %d or %d",
			availability.ConsultationMinutes, availability.GroomingMinutes)
	}
	if in.Price.IsNegative() {
		return apperrors.Validation("price must not be negative")
	}
	return nil
}

func (m *Manager) Create(ctx context.Context, in Input) (Service, error) {
	if err := in.validate(); err != nil {
		return Service{}, err
	}

	now := m.now().UTC()
	s := Service{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price.Round(2),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := m.repo.Create(ctx, s); err != nil {
		return Service{}, apperrors.Classify("create service", err)
	}
	return s, nil
}

// Update reemplaza los campos editables. La duración no se puede cambiar
// mientras haya citas que dependan del catálogo actual.
func (m *Manager) Update(ctx context.Context, id string, in Input) (Service, error) {
	if err := in.validate(); err != nil {
		return Service{}, err
	}

	current, err := m.Get(ctx, id)
	if err != nil {
		return Service{}, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Description = strings.TrimSpace(in.Description)
	current.DurationMinutes = in.DurationMinutes
	current.Price = in.Price.Round(2)
	current.UpdatedAt = m.now().UTC()

	if err := m.repo.Update(ctx, current); err != nil {
		return Service{}, apperrors.Classify("update service", err)
	}
	return current, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	return apperrors.Classify("delete service", m.repo.Delete(ctx, id))
}

func (m *Manager) Get(ctx context.Context, id string) (Service, error) {
	s, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return Service{}, apperrors.Classify("get service", err)
	}
	return s, nil
}

func (m *Manager) List(ctx context.Context) ([]Service, error) {
	items, err := m.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Classify("list services", err)
	}
	return items, nil
}

// DurationOf implementa availability.DurationLookup.
func (m *Manager) DurationOf(ctx context.Context, serviceID string) (int, error) {
	s, err := m.Get(ctx, serviceID)
	if err != nil {
		return 0, err
	}
	return s.DurationMinutes, nil
}
