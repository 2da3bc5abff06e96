package auth

import "time"

// Claims representa la información extraída del token de sesión del admin.
type Claims struct {
	AdminID   string
	Username  string
	ExpiresAt time.Time
}
