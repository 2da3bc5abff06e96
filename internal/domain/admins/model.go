package admins

import "time"

// Admin es un usuario del panel. La password solo se guarda como hash bcrypt.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session es lo que devuelve un login exitoso.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Admin     Admin
}
