package appointments

import (
	"context"

	"vet-booking/internal/domain/availability"
	"vet-booking/internal/domain/clients"
)

// Repository. Las escrituras que reservan un slot verifican la capacidad en el mismo
// paso atómico que insertan: pending+confirmed del (servicio, fecha, slot) < profesionales
// activos del servicio y, con profesional asignado, ninguna otra cita activa suya en ese slot.
// Si no hay cupo devuelven ErrConflict.
type Repository interface {
	availability.OccupancyReader

	// Book busca el cliente por TaxID (o lo crea) y crea la cita. Un cliente existente
	// no se modifica, salvo teléfono o email que estaban vacíos. Devuelve la cita con ClientID resuelto.
	Book(ctx context.Context, c clients.Client, a Appointment) (Appointment, error)

	GetByID(ctx context.Context, id string) (Appointment, error)
	GetDetail(ctx context.Context, id string) (Detail, error)
	List(ctx context.Context, f ListFilter) ([]Detail, error)

	// Update persiste next solo si la cita guardada sigue igual a prev (SameState);
	// si otra escritura la cambió entre medio devuelve StaleError. Con reserve=true además
	// vuelve a verificar capacidad en el slot de next (sin contarla a ella misma).
	Update(ctx context.Context, prev, next Appointment, reserve bool) error
}
