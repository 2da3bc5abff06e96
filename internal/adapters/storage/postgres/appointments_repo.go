package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/appointments"
	"vet-booking/internal/domain/availability"
	"vet-booking/internal/domain/clients"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `a.id, a.client_id, a.service_id, COALESCE(a.professional_id::text, ''),
	a.appointment_date, a.slot_minute, a.status, a.notes, a.created_at, a.updated_at`

const detailColumns = appointmentColumns + `,
	c.first_name || ' ' || c.last_name, c.tax_id, c.phone, c.email, c.pet_name,
	s.name, COALESCE(p.first_name || ' ' || p.last_name, '')`

const detailFrom = `
	FROM appointments a
	JOIN clients c ON c.id = a.client_id
	JOIN services s ON s.id = a.service_id
	LEFT JOIN professionals p ON p.id = a.professional_id`

// Book corre en una transacción: lock del servicio y del slot, verificación de cupo,
// upsert del cliente e insert de la cita. Si algo falla no queda ni cliente ni cita.
func (r *AppointmentsRepo) Book(ctx context.Context, c clients.Client, a appointments.Appointment) (appointments.Appointment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return appointments.Appointment{}, mapError("appointment", "begin booking", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := reserve(ctx, tx, a); err != nil {
		return appointments.Appointment{}, err
	}

	clientID, err := upsertClient(ctx, tx, c)
	if err != nil {
		return appointments.Appointment{}, mapError("client", "upsert client", err)
	}
	a.ClientID = clientID

	_, err = tx.ExecContext(ctx, `
		INSERT INTO appointments (
			id, client_id, service_id, professional_id,
			appointment_date, slot_minute, status, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.ClientID,
		a.ServiceID,
		nullUUID(a.ProfessionalID),
		a.Date,
		int(a.Slot),
		string(a.Status),
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return appointments.Appointment{}, slotError(a, mapError("appointment", "insert appointment", err))
	}

	if err := tx.Commit(); err != nil {
		return appointments.Appointment{}, mapError("appointment", "commit booking", err)
	}
	return a, nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		WHERE a.id = $1
	`, id)

	a, err := scanAppointment(row)
	if err != nil {
		return appointments.Appointment{}, mapError("appointment", "get appointment", err)
	}
	return a, nil
}

func (r *AppointmentsRepo) GetDetail(ctx context.Context, id string) (appointments.Detail, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+detailColumns+detailFrom+`
		WHERE a.id = $1
	`, id)

	d, err := scanDetail(row)
	if err != nil {
		return appointments.Detail{}, mapError("appointment", "get appointment detail", err)
	}
	return d, nil
}

func (r *AppointmentsRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Detail, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Date != nil {
		add("a.appointment_date = $%d", availability.CivilDate(*f.Date))
	}
	if f.Status != "" {
		add("a.status = $%d", string(f.Status))
	}
	if f.ServiceID != "" {
		add("a.service_id = $%d", f.ServiceID)
	}
	if f.ActiveOnly {
		where = append(where, "a.status <> 'cancelled'")
	}

	query := `SELECT ` + detailColumns + detailFrom
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\tORDER BY a.appointment_date ASC, a.slot_minute ASC, a.created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("appointment", "list appointments", err)
	}
	defer rows.Close()

	out := make([]appointments.Detail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, mapError("appointment", "scan appointment", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("appointment", "list appointments", err)
	}
	return out, nil
}

// Update bloquea la fila (FOR UPDATE) y solo escribe si sigue como prev. Una cancelación
// que llegó entre la lectura del llamador y esta escritura hace fallar el update.
func (r *AppointmentsRepo) Update(ctx context.Context, prev, a appointments.Appointment, reserveSlot bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("appointment", "begin update", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored, err := scanAppointment(tx.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		WHERE a.id = $1
		FOR UPDATE
	`, a.ID))
	if err != nil {
		return mapError("appointment", "lock appointment", err)
	}
	if !stored.SameState(prev) {
		return appointments.StaleError()
	}

	if reserveSlot {
		if err := reserve(ctx, tx, a); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE appointments
		SET
			professional_id = $2,
			appointment_date = $3,
			slot_minute = $4,
			status = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`,
		a.ID,
		nullUUID(a.ProfessionalID),
		a.Date,
		int(a.Slot),
		string(a.Status),
		a.Notes,
		a.UpdatedAt,
	)
	if err != nil {
		return slotError(a, mapError("appointment", "update appointment", err))
	}

	return mapError("appointment", "commit update", tx.Commit())
}

func (r *AppointmentsRepo) OccupiedSlots(ctx context.Context, q availability.OccupancyQuery) (map[availability.SlotTime]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT slot_minute, COUNT(*)
		FROM appointments
		WHERE service_id = $1
			AND appointment_date = $2
			AND status <> 'cancelled'
			AND ($3::uuid IS NULL OR professional_id = $3::uuid)
		GROUP BY slot_minute
	`, q.ServiceID, availability.CivilDate(q.Date), nullUUID(q.ProfessionalID))
	if err != nil {
		return nil, mapError("appointment", "read occupancy", err)
	}
	defer rows.Close()

	out := make(map[availability.SlotTime]int)
	for rows.Next() {
		var slot, n int
		if err := rows.Scan(&slot, &n); err != nil {
			return nil, mapError("appointment", "scan occupancy", err)
		}
		out[availability.SlotTime(slot)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("appointment", "read occupancy", err)
	}
	return out, nil
}

// reserve toma el servicio con FOR SHARE (un cambio de duración espera a que la reserva
// termine), verifica que el slot siga en el catálogo, serializa las reservas del mismo
// (servicio, fecha, slot) con un advisory lock de transacción y verifica cupo sin contar
// a la propia cita.
func reserve(ctx context.Context, tx *sql.Tx, a appointments.Appointment) error {
	var duration int
	err := tx.QueryRowContext(ctx, `
		SELECT duration_minutes FROM services WHERE id = $1 FOR SHARE
	`, a.ServiceID).Scan(&duration)
	if err != nil {
		return mapError("service", "lock service", err)
	}
	offered, err := availability.InCatalog(duration, a.Slot)
	if err != nil {
		return err
	}
	if !offered {
		return apperrors.Conflict("time %s is no longer offered for this service", a.Slot)
	}

	date := availability.CivilDate(a.Date)
	key := fmt.Sprintf("%s|%s|%d", a.ServiceID, date.Format(availability.DateLayout), int(a.Slot))
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return mapError("appointment", "lock slot", err)
	}

	if a.ProfessionalID != "" {
		var busy bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE professional_id = $1
					AND appointment_date = $2
					AND slot_minute = $3
					AND status <> 'cancelled'
					AND id <> $4
			)
		`, a.ProfessionalID, date, int(a.Slot), a.ID).Scan(&busy)
		if err != nil {
			return mapError("appointment", "check professional", err)
		}
		if busy {
			return apperrors.Conflict("professional already has an appointment at %s", a.Slot)
		}
	}

	var taken, capacity int
	err = tx.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM appointments
				WHERE service_id = $1
					AND appointment_date = $2
					AND slot_minute = $3
					AND status <> 'cancelled'
					AND id <> $4),
			(SELECT COUNT(*) FROM professionals
				WHERE service_id = $1 AND active)
	`, a.ServiceID, date, int(a.Slot), a.ID).Scan(&taken, &capacity)
	if err != nil {
		return mapError("appointment", "check capacity", err)
	}
	if taken >= capacity {
		return apperrors.Conflict("slot %s is no longer available", a.Slot)
	}
	return nil
}

// slotError da un mensaje de dominio a la violación del índice único por profesional.
func slotError(a appointments.Appointment, err error) error {
	if apperrors.Kind(err) == apperrors.ErrConflict && a.ProfessionalID != "" {
		return apperrors.Conflict("professional already has an appointment at %s", a.Slot)
	}
	return err
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var slot int
	var status string
	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.ServiceID,
		&a.ProfessionalID,
		&a.Date,
		&slot,
		&status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return appointments.Appointment{}, err
	}
	a.Date = availability.CivilDate(a.Date)
	a.Slot = availability.SlotTime(slot)
	a.Status = appointments.Status(status)
	return a, nil
}

func scanDetail(row rowScanner) (appointments.Detail, error) {
	var d appointments.Detail
	var slot int
	var status string
	err := row.Scan(
		&d.ID,
		&d.ClientID,
		&d.ServiceID,
		&d.ProfessionalID,
		&d.Date,
		&slot,
		&status,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.ClientName,
		&d.ClientTaxID,
		&d.ClientPhone,
		&d.ClientEmail,
		&d.PetName,
		&d.ServiceName,
		&d.ProfessionalName,
	)
	if err != nil {
		return appointments.Detail{}, err
	}
	d.Date = availability.CivilDate(d.Date)
	d.Slot = availability.SlotTime(slot)
	d.Status = appointments.Status(status)
	return d, nil
}
