package auth

import (
	"context"
	"time"
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer firma un token de sesión con vencimiento.
type TokenIssuer interface {
	Issue(ctx context.Context, adminID, username string) (token string, expiresAt time.Time, err error)
}
