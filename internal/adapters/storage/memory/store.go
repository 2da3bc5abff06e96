// Package memory es el store de desarrollo y tests: todo vive en mapas detrás de un solo mutex,
// así las reservas hacen check-then-insert atómico igual que en Postgres.
package memory

import (
	"sync"

	"vet-booking/internal/domain/admins"
	"vet-booking/internal/domain/appointments"
	"vet-booking/internal/domain/clients"
	"vet-booking/internal/domain/contacts"
	"vet-booking/internal/domain/posts"
	"vet-booking/internal/domain/professionals"
	"vet-booking/internal/domain/services"
)

type Store struct {
	mu sync.RWMutex

	services      map[string]services.Service
	professionals map[string]professionals.Professional
	clients       map[string]clients.Client
	clientByTaxID map[string]string
	appointments  map[string]appointments.Appointment
	admins        map[string]admins.Admin
	posts         map[string]posts.Post
	contacts      map[string]contacts.Message
}

func NewStore() *Store {
	return &Store{
		services:      make(map[string]services.Service),
		professionals: make(map[string]professionals.Professional),
		clients:       make(map[string]clients.Client),
		clientByTaxID: make(map[string]string),
		appointments:  make(map[string]appointments.Appointment),
		admins:        make(map[string]admins.Admin),
		posts:         make(map[string]posts.Post),
		contacts:      make(map[string]contacts.Message),
	}
}
