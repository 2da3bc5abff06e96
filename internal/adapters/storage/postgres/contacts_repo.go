package postgres

import (
	"context"
	"database/sql"

	"vet-booking/internal/domain/contacts"
)

type ContactsRepo struct {
	db *sql.DB
}

func NewContactsRepo(db *sql.DB) *ContactsRepo {
	return &ContactsRepo{db: db}
}

func (r *ContactsRepo) Create(ctx context.Context, m contacts.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, body, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, m.ID, m.Name, m.Email, m.Phone, m.Body, m.CreatedAt)
	return mapError("contact message", "create contact message", err)
}

func (r *ContactsRepo) List(ctx context.Context) ([]contacts.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, body, created_at
		FROM contact_messages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, mapError("contact message", "list contact messages", err)
	}
	defer rows.Close()

	out := make([]contacts.Message, 0)
	for rows.Next() {
		var m contacts.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Body, &m.CreatedAt); err != nil {
			return nil, mapError("contact message", "scan contact message", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("contact message", "list contact messages", err)
	}
	return out, nil
}
