package notify

import "context"

// Message es un recordatorio ya renderizado. To es un teléfono en formato E.164.
type Message struct {
	To   string
	Body string
}

// Notifier entrega un mensaje a un cliente.
type Notifier interface {
	Send(ctx context.Context, m Message) error
}
