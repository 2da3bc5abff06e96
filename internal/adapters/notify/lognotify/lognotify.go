// Package lognotify es el Notifier de desarrollo: escribe el recordatorio en el log.
package lognotify

import (
	"context"

	"vet-booking/internal/platform/logger"
	"vet-booking/internal/ports/notify"
)

type Notifier struct {
	log logger.Logger
}

func New(log logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{log: log}
}

func (n *Notifier) Send(ctx context.Context, m notify.Message) error {
	n.log.Info("reminder", map[string]any{
		"to":   m.To,
		"body": m.Body,
	})
	return nil
}
