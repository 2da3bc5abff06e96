package postgres

import (
	"context"
	"database/sql"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/clients"
)

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

const clientColumns = `id, first_name, last_name, tax_id, phone, email,
	pet_name, pet_species, pet_breed, created_at, updated_at`

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1
	`, id)

	c, err := scanClient(row)
	if err != nil {
		return clients.Client{}, mapError("client", "get client", err)
	}
	return c, nil
}

func (r *ClientsRepo) GetByTaxID(ctx context.Context, taxID string) (clients.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE tax_id = $1
	`, taxID)

	c, err := scanClient(row)
	if err != nil {
		return clients.Client{}, mapError("client", "get client by tax id", err)
	}
	return c, nil
}

func (r *ClientsRepo) List(ctx context.Context) ([]clients.Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, mapError("client", "list clients", err)
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, mapError("client", "scan client", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("client", "list clients", err)
	}
	return out, nil
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET
			first_name = $2,
			last_name = $3,
			tax_id = $4,
			phone = $5,
			email = $6,
			pet_name = $7,
			pet_species = $8,
			pet_breed = $9,
			updated_at = $10
		WHERE id = $1
	`,
		c.ID,
		c.FirstName,
		c.LastName,
		c.TaxID,
		c.Phone,
		c.Email,
		c.Pet.Name,
		string(c.Pet.Species),
		c.Pet.Breed,
		c.UpdatedAt,
	)
	if isPgCode(err, pgUniqueViolation) {
		return apperrors.Conflict("taxId already belongs to another client")
	}
	if err != nil {
		return mapError("client", "update client", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("client")
	}
	return nil
}

// Delete depende del ON DELETE RESTRICT de appointments.client_id.
func (r *ClientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if isPgCode(err, pgForeignKeyViolation) {
		return apperrors.Conflict("client has appointments")
	}
	if err != nil {
		return mapError("client", "delete client", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("client")
	}
	return nil
}

// upsertClient reutiliza el cliente con el mismo tax_id sin pisar sus datos (solo completa
// teléfono o email vacíos) o lo inserta. Devuelve el id efectivo.
func upsertClient(ctx context.Context, tx *sql.Tx, c clients.Client) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (tax_id) DO UPDATE SET
			phone = COALESCE(NULLIF(clients.phone, ''), EXCLUDED.phone),
			email = COALESCE(NULLIF(clients.email, ''), EXCLUDED.email),
			updated_at = CASE
				WHEN (clients.phone = '' AND EXCLUDED.phone <> '')
					OR (clients.email = '' AND EXCLUDED.email <> '')
				THEN EXCLUDED.updated_at
				ELSE clients.updated_at
			END
		RETURNING id
	`,
		c.ID,
		c.FirstName,
		c.LastName,
		c.TaxID,
		c.Phone,
		c.Email,
		c.Pet.Name,
		string(c.Pet.Species),
		c.Pet.Breed,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&id)
	return id, err
}

func scanClient(row rowScanner) (clients.Client, error) {
	var c clients.Client
	var species string
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.TaxID,
		&c.Phone,
		&c.Email,
		&c.Pet.Name,
		&species,
		&c.Pet.Breed,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	c.Pet.Species = clients.Species(species)
	return c, err
}
