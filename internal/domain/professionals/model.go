package professionals

import "time"

// Professional atiende una sola categoría de servicio.
// Solo los activos cuentan como capacidad.
type Professional struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	Email     string

	ServiceID string
	Active    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Professional) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
