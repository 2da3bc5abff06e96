package professionals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/availability"
)

type Service struct {
	repo     Repository
	services availability.DurationLookup
	now      func() time.Time
}

// NewService recibe services como DurationLookup solo para validar que el servicio exista.
func NewService(repo Repository, services availability.DurationLookup) *Service {
	return &Service{
		repo:     repo,
		services: services,
		now:      time.Now,
	}
}

type Input struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	ServiceID string
	Active    *bool // nil => activo al crear / sin cambio al editar
}

func (s *Service) Create(ctx context.Context, in Input) (Professional, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return Professional{}, apperrors.Validation("firstName is required")
	}
	if err := s.checkService(ctx, in.ServiceID); err != nil {
		return Professional{}, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := s.now().UTC()
	p := Professional{
		ID:        uuid.NewString(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		ServiceID: in.ServiceID,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Professional{}, apperrors.Classify("create professional", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Professional, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return Professional{}, apperrors.Validation("firstName is required")
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Professional{}, err
	}
	if in.ServiceID != p.ServiceID {
		if err := s.checkService(ctx, in.ServiceID); err != nil {
			return Professional{}, err
		}
	}

	p.FirstName = strings.TrimSpace(in.FirstName)
	p.LastName = strings.TrimSpace(in.LastName)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Email = strings.ToLower(strings.TrimSpace(in.Email))
	p.ServiceID = in.ServiceID
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Professional{}, apperrors.Classify("update professional", err)
	}
	return p, nil
}

// Deactivate es el DELETE del admin: las citas históricas siguen apuntando al profesional.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Active {
		return nil
	}
	p.Active = false
	p.UpdatedAt = s.now().UTC()
	return apperrors.Classify("deactivate professional", s.repo.Update(ctx, p))
}

func (s *Service) GetByID(ctx context.Context, id string) (Professional, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Professional{}, apperrors.Classify("get professional", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Professional, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperrors.Classify("list professionals", err)
	}
	return items, nil
}

// ServiceCapacity implementa availability.CapacityResolver: profesionales activos del servicio.
func (s *Service) ServiceCapacity(ctx context.Context, serviceID string) (int, error) {
	n, err := s.repo.CountActive(ctx, serviceID)
	if err != nil {
		return 0, apperrors.Classify("count active professionals", err)
	}
	return n, nil
}

// ProfessionalCapacity vale 1 si el profesional está activo y atiende el servicio, 0 si no.
// Un profesional inexistente es NotFound.
func (s *Service) ProfessionalCapacity(ctx context.Context, serviceID, professionalID string) (int, error) {
	p, err := s.GetByID(ctx, professionalID)
	if err != nil {
		return 0, err
	}
	if !p.Active || p.ServiceID != serviceID {
		return 0, nil
	}
	return 1, nil
}

func (s *Service) checkService(ctx context.Context, serviceID string) error {
	if strings.TrimSpace(serviceID) == "" {
		return apperrors.Validation("serviceId is required")
	}
	if _, err := s.services.DurationOf(ctx, serviceID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Validation("serviceId does not reference an existing service")
		}
		return apperrors.Classify("check service", err)
	}
	return nil
}
