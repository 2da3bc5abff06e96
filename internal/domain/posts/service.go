package posts

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
	Title       string
	Content     string
	ImageURL    string
	PublishedAt *time.Time // nil => ahora
}

func (s *Service) Create(ctx context.Context, in Input) (Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return Post{}, apperrors.Validation("title and content are required")
	}

	now := s.now().UTC()
	published := now
	if in.PublishedAt != nil {
		published = in.PublishedAt.UTC()
	}

	p := Post{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		PublishedAt: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Post{}, apperrors.Classify("create post", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return Post{}, apperrors.Validation("title and content are required")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Content = in.Content
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.PublishedAt != nil {
		p.PublishedAt = in.PublishedAt.UTC()
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Post{}, apperrors.Classify("update post", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return apperrors.Classify("delete post", s.repo.Delete(ctx, id))
}

func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Post{}, apperrors.Classify("get post", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Post, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Classify("list posts", err)
	}
	return items, nil
}
