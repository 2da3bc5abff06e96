package admins

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/ports/auth"
)

const minPasswordLen = 8

type Service struct {
	repo   Repository
	tokens auth.TokenIssuer
	cost   int
	now    func() time.Time

	// dummyHash se compara cuando el usuario no existe, para que el tiempo de
	// respuesta no delate qué usernames son válidos.
	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(repo Repository, tokens auth.TokenIssuer, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:   repo,
		tokens: tokens,
		cost:   bcryptCost,
		now:    time.Now,
	}
}

func normalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Login valida credenciales y emite un token firmado con vencimiento.
// Cualquier falla de credenciales sale como ErrUnauthorized, sin detalle.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return Session{}, apperrors.Validation("username and password are required")
	}

	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return Session{}, apperrors.ErrUnauthorized
		}
		return Session{}, apperrors.Classify("get admin", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return Session{}, apperrors.ErrUnauthorized
	}

	token, expiresAt, err := s.tokens.Issue(ctx, a.ID, a.Username)
	if err != nil {
		return Session{}, apperrors.Configuration("issue token: %v", err)
	}

	return Session{Token: token, ExpiresAt: expiresAt, Admin: a}, nil
}

// Seed crea el admin inicial si no existe. Si ya existe no toca su password.
func (s *Service) Seed(ctx context.Context, username, password string) (bool, error) {
	username = normalizeUsername(username)
	if username == "" {
		return false, apperrors.Validation("username is required")
	}
	if len(password) < minPasswordLen {
		return false, apperrors.Validation("password must have at least %d characters", minPasswordLen)
	}

	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false, apperrors.Classify("get admin", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, apperrors.Validation("password cannot be hashed")
	}

	now := s.now().UTC()
	a := Admin{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		// Otra instancia lo sembró primero.
		if errors.Is(err, apperrors.ErrConflict) {
			return false, nil
		}
		return false, apperrors.Classify("create admin", err)
	}
	return true, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Admin, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Admin{}, apperrors.Classify("get admin", err)
	}
	return a, nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
