package posts

import "context"

type Repository interface {
	Create(ctx context.Context, p Post) error
	Update(ctx context.Context, p Post) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Post, error)
	// List ordena por PublishedAt desc.
	List(ctx context.Context) ([]Post, error)
}
