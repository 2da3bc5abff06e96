package professionals

import "context"

type ListFilter struct {
	ServiceID  string // vacío => todos
	ActiveOnly bool
}

type Repository interface {
	Create(ctx context.Context, p Professional) error
	Update(ctx context.Context, p Professional) error
	GetByID(ctx context.Context, id string) (Professional, error)
	List(ctx context.Context, f ListFilter) ([]Professional, error)
	CountActive(ctx context.Context, serviceID string) (int, error)
}
