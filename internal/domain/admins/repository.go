package admins

import "context"

type Repository interface {
	// Create falla con ErrConflict si el username ya existe.
	Create(ctx context.Context, a Admin) error
	GetByID(ctx context.Context, id string) (Admin, error)
	GetByUsername(ctx context.Context, username string) (Admin, error)
}
