package postgres

import (
	"context"
	"database/sql"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/admins"
)

type AdminsRepo struct {
	db *sql.DB
}

func NewAdminsRepo(db *sql.DB) *AdminsRepo {
	return &AdminsRepo{db: db}
}

func (r *AdminsRepo) Create(ctx context.Context, a admins.Admin) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, username, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, a.ID, a.Username, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	if isPgCode(err, pgUniqueViolation) {
		return apperrors.Conflict("username already taken")
	}
	return mapError("admin", "create admin", err)
}

func (r *AdminsRepo) GetByID(ctx context.Context, id string) (admins.Admin, error) {
	return r.getBy(ctx, "id", id)
}

func (r *AdminsRepo) GetByUsername(ctx context.Context, username string) (admins.Admin, error) {
	return r.getBy(ctx, "username", username)
}

// column viene siempre de este archivo, nunca del request.
func (r *AdminsRepo) getBy(ctx context.Context, column, value string) (admins.Admin, error) {
	var a admins.Admin
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admins
		WHERE `+column+` = $1
	`, value).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return admins.Admin{}, mapError("admin", "get admin", err)
	}
	return a, nil
}
