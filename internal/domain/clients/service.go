package clients

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"vet-booking/internal/apperrors"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type Input struct {
	FirstName string
	LastName  string
	TaxID     string
	Phone     string
	Email     string

	PetName    string
	PetSpecies string
	PetBreed   string
}

// New valida y arma un cliente nuevo. El store decide si se inserta
// o si se reutiliza el existente con el mismo TaxID.
func New(in Input, now time.Time) (Client, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return Client{}, apperrors.Validation("firstName is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return Client{}, apperrors.Validation("lastName is required")
	}
	if strings.TrimSpace(in.PetName) == "" {
		return Client{}, apperrors.Validation("petName is required")
	}
	taxID, err := NormalizeTaxID(in.TaxID)
	if err != nil {
		return Client{}, err
	}
	species, ok := ParseSpecies(strings.ToLower(strings.TrimSpace(in.PetSpecies)))
	if !ok {
		return Client{}, apperrors.Validation("petSpecies must be dog, cat or other")
	}

	now = now.UTC()
	return Client{
		ID:        uuid.NewString(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		TaxID:     taxID,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Pet: Pet{
			Name:    strings.TrimSpace(in.PetName),
			Species: species,
			Breed:   strings.TrimSpace(in.PetBreed),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Client{}, apperrors.Classify("get client", err)
	}
	return c, nil
}

func (s *Service) GetByTaxID(ctx context.Context, raw string) (Client, error) {
	taxID, err := NormalizeTaxID(raw)
	if err != nil {
		return Client{}, err
	}
	c, err := s.repo.GetByTaxID(ctx, taxID)
	if err != nil {
		return Client{}, apperrors.Classify("get client by tax id", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Classify("list clients", err)
	}
	return items, nil
}

// Update es la corrección del admin: reemplaza datos de contacto y mascota,
// y puede corregir el RUT si no choca con otro cliente.
func (s *Service) Update(ctx context.Context, id string, in Input) (Client, error) {
	next, err := New(in, s.now())
	if err != nil {
		return Client{}, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	if err := s.repo.Update(ctx, next); err != nil {
		return Client{}, apperrors.Classify("update client", err)
	}
	return next, nil
}

// Delete solo procede si el cliente no tiene citas (ni canceladas: son historial).
func (s *Service) Delete(ctx context.Context, id string) error {
	return apperrors.Classify("delete client", s.repo.Delete(ctx, id))
}
