package contacts

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
	Name  string
	Email string
	Phone string
	Body  string
}

func (s *Service) Create(ctx context.Context, in Input) (Message, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Message{}, apperrors.Validation("name is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return Message{}, apperrors.Validation("message is required")
	}

	m := Message{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Body:      strings.TrimSpace(in.Body),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Message{}, apperrors.Classify("create contact message", err)
	}
	return m, nil
}

func (s *Service) List(ctx context.Context) ([]Message, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Classify("list contact messages", err)
	}
	return items, nil
}
