package contacts

import "context"

type Repository interface {
	Create(ctx context.Context, m Message) error
	// List ordena por CreatedAt desc.
	List(ctx context.Context) ([]Message, error)
}
