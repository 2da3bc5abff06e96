package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vet-booking/internal/domain/appointments"
	"vet-booking/internal/domain/availability"
	"vet-booking/internal/ports/notify"
)

type fakeUpcoming struct {
	items     []appointments.Detail
	err       error
	askedDate time.Time
	loc       *time.Location
}

func (f *fakeUpcoming) Upcoming(ctx context.Context, date time.Time) ([]appointments.Detail, error) {
	f.askedDate = date
	return f.items, f.err
}

func (f *fakeUpcoming) Location() *time.Location { return f.loc }

type fakeNotifier struct {
	sent   []notify.Message
	failTo string
}

func (f *fakeNotifier) Send(ctx context.Context, m notify.Message) error {
	if m.To == f.failTo {
		return errors.New("carrier rejected")
	}
	f.sent = append(f.sent, m)
	return nil
}

func detail(id, phone string) appointments.Detail {
	return appointments.Detail{
		Appointment: appointments.Appointment{
			ID:   id,
			Date: time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
			Slot: availability.NewSlotTime(9, 30),
		},
		ClientName:  "Camila Pérez",
		ClientPhone: phone,
		PetName:     "Toby",
		ServiceName: "Consulta",
	}
}

func TestRun_SendsOnePerAppointment(t *testing.T) {
	loc := time.FixedZone("CLT", -4*3600)
	lister := &fakeUpcoming{
		loc: loc,
		items: []appointments.Detail{
			detail("a1", "+56911111111"),
			detail("a2", ""),
			detail("a3", "+56933333333"),
			detail("a4", "+56944444444"),
		},
	}
	notifier := &fakeNotifier{failTo: "+56933333333"}

	j := NewReminders(lister, notifier, nil)
	// 22:30 del 10 en la clínica ya es 11 en UTC: "mañana" se calcula en la zona de la clínica.
	j.now = func() time.Time { return time.Date(2024, 6, 11, 2, 30, 0, 0, time.UTC) }

	res, err := j.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res != (Result{Sent: 2, Skipped: 1, Failed: 1}) {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := lister.askedDate.Format(availability.DateLayout); got != "2024-06-11" {
		t.Fatalf("expected reminders for 2024-06-11, got %s", got)
	}
	if len(notifier.sent) != 2 || notifier.sent[0].To != "+56911111111" {
		t.Fatalf("unexpected sent messages %+v", notifier.sent)
	}
}

func TestRun_ListFailure(t *testing.T) {
	lister := &fakeUpcoming{loc: time.UTC, err: errors.New("db down")}
	j := NewReminders(lister, &fakeNotifier{}, nil)

	if _, err := j.Run(context.Background()); err == nil {
		t.Fatalf("expected error when appointments cannot be listed")
	}
}

func TestReminderText(t *testing.T) {
	d := detail("a1", "+1")
	d.ProfessionalName = "Ana Soto"

	got := ReminderText(d)
	for _, want := range []string{"Camila Pérez", "Toby", "Consulta", "11-06-2024", "09:30", "Ana Soto"} {
		if !strings.Contains(got, want) {
			t.Fatalf("reminder %q missing %q", got, want)
		}
	}
}

func TestSchedule_RejectsBadExpression(t *testing.T) {
	j := NewReminders(&fakeUpcoming{loc: time.UTC}, &fakeNotifier{}, nil)
	c := NewScheduler(time.UTC)

	if _, err := j.Schedule(c, "not a cron"); err == nil {
		t.Fatalf("expected error for invalid cron expression")
	}
	if _, err := j.Schedule(c, "0 9 * * *"); err != nil {
		t.Fatalf("valid expression rejected: %v", err)
	}
}
