package clients

import "context"

// Repository. El alta ocurre dentro de la transacción de reserva
// (ver appointments.Repository.Book); acá quedan lecturas y la mantención del admin.
type Repository interface {
	GetByID(ctx context.Context, id string) (Client, error)
	GetByTaxID(ctx context.Context, taxID string) (Client, error)
	List(ctx context.Context) ([]Client, error)

	// Update falla con ErrConflict si el TaxID ya pertenece a otro cliente.
	Update(ctx context.Context, c Client) error
	// Delete falla con ErrConflict si alguna cita referencia al cliente.
	Delete(ctx context.Context, id string) error
}
