package postgres

import (
	"context"
	"database/sql"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/services"
)

type ServicesRepo struct {
	db *sql.DB
}

func NewServicesRepo(db *sql.DB) *ServicesRepo {
	return &ServicesRepo{db: db}
}

const serviceColumns = `id, name, description, duration_minutes, price, created_at, updated_at`

func (r *ServicesRepo) Create(ctx context.Context, s services.Service) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		s.ID,
		s.Name,
		s.Description,
		s.DurationMinutes,
		s.Price,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return mapError("service", "create service", err)
}

// Update bloquea la fila del servicio antes de mirar las citas. Book toma la misma fila
// con FOR SHARE, así que una reserva no puede colarse entre la verificación y el cambio de duración.
func (r *ServicesRepo) Update(ctx context.Context, s services.Service) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("service", "begin update", err)
	}
	defer func() { _ = tx.Rollback() }()

	var duration int
	err = tx.QueryRowContext(ctx, `
		SELECT duration_minutes FROM services WHERE id = $1 FOR UPDATE
	`, s.ID).Scan(&duration)
	if err != nil {
		return mapError("service", "lock service", err)
	}

	if duration != s.DurationMinutes {
		var booked bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM appointments WHERE service_id = $1)
		`, s.ID).Scan(&booked); err != nil {
			return mapError("service", "check service usage", err)
		}
		if booked {
			return apperrors.Conflict("durationMinutes cannot change while appointments reference the service")
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE services
		SET
			name = $2,
			description = $3,
			duration_minutes = $4,
			price = $5,
			updated_at = $6
		WHERE id = $1
	`,
		s.ID,
		s.Name,
		s.Description,
		s.DurationMinutes,
		s.Price,
		s.UpdatedAt,
	)
	if err != nil {
		return mapError("service", "update service", err)
	}

	return mapError("service", "commit update", tx.Commit())
}

// Delete depende del ON DELETE RESTRICT: un servicio con citas o profesionales
// sale como 23503 y se reporta como conflicto.
func (r *ServicesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if isPgCode(err, pgForeignKeyViolation) {
		return apperrors.Conflict("service is in use by appointments or professionals")
	}
	if err != nil {
		return mapError("service", "delete service", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("service")
	}
	return nil
}

func (r *ServicesRepo) GetByID(ctx context.Context, id string) (services.Service, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1
	`, id)

	s, err := scanService(row)
	if err != nil {
		return services.Service{}, mapError("service", "get service", err)
	}
	return s, nil
}

func (r *ServicesRepo) List(ctx context.Context) ([]services.Service, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, mapError("service", "list services", err)
	}
	defer rows.Close()

	out := make([]services.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, mapError("service", "scan service", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("service", "list services", err)
	}
	return out, nil
}

// rowScanner cubre *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (services.Service, error) {
	var s services.Service
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.DurationMinutes,
		&s.Price,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}
