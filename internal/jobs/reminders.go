// Package jobs agrupa las tareas programadas del servicio.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"vet-booking/internal/domain/appointments"
	"vet-booking/internal/domain/availability"
	"vet-booking/internal/platform/logger"
	"vet-booking/internal/ports/notify"
)

// UpcomingLister lo implementa appointments.Service.
type UpcomingLister interface {
	Upcoming(ctx context.Context, date time.Time) ([]appointments.Detail, error)
	Location() *time.Location
}

type Reminders struct {
	appts    UpcomingLister
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
	timeout  time.Duration
}

func NewReminders(appts UpcomingLister, notifier notify.Notifier, log logger.Logger) *Reminders {
	if log == nil {
		log = logger.Nop()
	}
	return &Reminders{
		appts:    appts,
		notifier: notifier,
		log:      log.With(map[string]any{"job": "reminders"}),
		now:      time.Now,
		timeout:  2 * time.Minute,
	}
}

// Result resume una corrida.
type Result struct {
	Sent    int
	Skipped int
	Failed  int
}

// Run envía un recordatorio por cada cita activa de mañana (fecha de la clínica).
// Un envío fallido se loguea y no corta la corrida.
func (j *Reminders) Run(ctx context.Context) (Result, error) {
	loc := j.appts.Location()
	tomorrow := j.now().In(loc).AddDate(0, 0, 1)

	items, err := j.appts.Upcoming(ctx, tomorrow)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, d := range items {
		phone := strings.TrimSpace(d.ClientPhone)
		if phone == "" {
			res.Skipped++
			j.log.Warn("reminder skipped: client without phone", map[string]any{"appointment_id": d.ID})
			continue
		}

		if err := j.notifier.Send(ctx, notify.Message{To: phone, Body: ReminderText(d)}); err != nil {
			res.Failed++
			j.log.Error("reminder failed", map[string]any{"appointment_id": d.ID, "err": err})
			continue
		}
		res.Sent++
	}

	j.log.Info("reminders run finished", map[string]any{
		"date":    tomorrow.Format(availability.DateLayout),
		"sent":    res.Sent,
		"skipped": res.Skipped,
		"failed":  res.Failed,
	})
	return res, nil
}

// ReminderText arma el SMS en castellano, como lo ve el cliente.
func ReminderText(d appointments.Detail) string {
	who := strings.TrimSpace(d.ClientName)
	if who == "" {
		who = "cliente"
	}
	text := fmt.Sprintf("Hola %s, te recordamos la cita de %s (%s) el %s a las %s.",
		who, d.PetName, d.ServiceName, d.Date.Format("02-01-2006"), d.Slot)
	if d.ProfessionalName != "" {
		text += " Te atenderá " + d.ProfessionalName + "."
	}
	return text
}

// Schedule registra el job en c con la expresión cron expr (5 campos).
func (j *Reminders) Schedule(c *cron.Cron, expr string) (cron.EntryID, error) {
	return c.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.log.Error("reminders run failed", map[string]any{"err": err})
		}
	})
}

// NewScheduler crea el cron en la zona de la clínica.
func NewScheduler(loc *time.Location) *cron.Cron {
	return cron.New(cron.WithLocation(loc))
}
