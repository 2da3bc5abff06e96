package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"vet-booking/internal/apperrors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// mapError traduce errores del driver a los kinds de apperrors.
// entity se usa para el NotFound; op describe la operación en el DataAccess.
func mapError(entity, op string, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.Kind(err) != nil {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.Conflict("%s already exists", entity)
		case pgForeignKeyViolation:
			return apperrors.Conflict("%s is referenced by other records", entity)
		case pgInvalidTextRepr:
			// un id que no es uuid no puede existir
			return apperrors.NotFound(entity)
		}
	}
	return apperrors.DataAccess(op, err)
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func nullUUID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}
