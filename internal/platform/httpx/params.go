package httpx

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vet-booking/internal/apperrors"
)

// PathID lee un path param y exige que sea un UUID.
func PathID(r *http.Request, name string) (string, error) {
	return ParseID(name, chi.URLParam(r, name))
}

// ParseID normaliza un id y devuelve ErrValidation si no es UUID.
func ParseID(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.Validation("%s is required", field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.Validation("%s must be a valid id", field)
	}
	return id.String(), nil
}

// OptionalID igual que ParseID pero "" es válido.
func OptionalID(field, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return ParseID(field, raw)
}
