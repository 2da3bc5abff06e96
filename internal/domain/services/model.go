package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service es una prestación de la clínica (consulta, peluquería, vacuna...).
// DurationMinutes define qué catálogo de horas aplica.
type Service struct {
	ID          string
	Name        string
	Description string

	DurationMinutes int
	Price           decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
