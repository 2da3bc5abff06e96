package services

import "context"

type Repository interface {
	Create(ctx context.Context, s Service) error
	// Update falla con ErrConflict si cambia la duración y alguna cita referencia el servicio.
	// La verificación y la escritura son un solo paso en el store.
	Update(ctx context.Context, s Service) error
	// Delete falla con ErrConflict si alguna cita referencia el servicio.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Service, error)
	List(ctx context.Context) ([]Service, error)
}
