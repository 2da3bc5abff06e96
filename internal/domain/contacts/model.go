package contacts

import "time"

// Message es un mensaje del formulario de contacto del sitio.
type Message struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Body      string
	CreatedAt time.Time
}
