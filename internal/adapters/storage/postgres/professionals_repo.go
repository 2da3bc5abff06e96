package postgres

import (
	"context"
	"database/sql"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/professionals"
)

type ProfessionalsRepo struct {
	db *sql.DB
}

func NewProfessionalsRepo(db *sql.DB) *ProfessionalsRepo {
	return &ProfessionalsRepo{db: db}
}

const professionalColumns = `id, first_name, last_name, phone, email, service_id, active, created_at, updated_at`

func (r *ProfessionalsRepo) Create(ctx context.Context, p professionals.Professional) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO professionals (`+professionalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.ID,
		p.FirstName,
		p.LastName,
		p.Phone,
		p.Email,
		p.ServiceID,
		p.Active,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if isPgCode(err, pgForeignKeyViolation) {
		return apperrors.Validation("serviceId does not reference an existing service")
	}
	return mapError("professional", "create professional", err)
}

func (r *ProfessionalsRepo) Update(ctx context.Context, p professionals.Professional) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE professionals
		SET
			first_name = $2,
			last_name = $3,
			phone = $4,
			email = $5,
			service_id = $6,
			active = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.FirstName,
		p.LastName,
		p.Phone,
		p.Email,
		p.ServiceID,
		p.Active,
		p.UpdatedAt,
	)
	if err != nil {
		return mapError("professional", "update professional", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("professional")
	}
	return nil
}

func (r *ProfessionalsRepo) GetByID(ctx context.Context, id string) (professionals.Professional, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+professionalColumns+`
		FROM professionals
		WHERE id = $1
	`, id)

	p, err := scanProfessional(row)
	if err != nil {
		return professionals.Professional{}, mapError("professional", "get professional", err)
	}
	return p, nil
}

func (r *ProfessionalsRepo) List(ctx context.Context, f professionals.ListFilter) ([]professionals.Professional, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+professionalColumns+`
		FROM professionals
		WHERE ($1::uuid IS NULL OR service_id = $1::uuid)
			AND (NOT $2 OR active)
		ORDER BY last_name ASC, first_name ASC
	`, nullUUID(f.ServiceID), f.ActiveOnly)
	if err != nil {
		return nil, mapError("professional", "list professionals", err)
	}
	defer rows.Close()

	out := make([]professionals.Professional, 0)
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, mapError("professional", "scan professional", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("professional", "list professionals", err)
	}
	return out, nil
}

func (r *ProfessionalsRepo) CountActive(ctx context.Context, serviceID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM professionals WHERE service_id = $1 AND active
	`, serviceID).Scan(&n)
	if err != nil {
		return 0, mapError("professional", "count professionals", err)
	}
	return n, nil
}

func scanProfessional(row rowScanner) (professionals.Professional, error) {
	var p professionals.Professional
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Email,
		&p.ServiceID,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
