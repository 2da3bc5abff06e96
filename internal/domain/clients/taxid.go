package clients

import (
	"strings"

	"vet-booking/internal/apperrors"
)

const maxTaxIDLen = 20

// NormalizeTaxID deja el RUT sin puntos ni espacios y con dígito verificador en mayúscula
// ("12.345.678-k" => "12345678-K"), para que la búsqueda por clave natural no dependa del formato.
func NormalizeTaxID(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		switch {
		case r == '.' || r == ' ' || r == '\t':
			continue
		case (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || r == '-':
			b.WriteRune(r)
		default:
			return "", apperrors.Validation("taxId contains invalid characters")
		}
	}

	out := b.String()
	if out == "" {
		return "", apperrors.Validation("taxId is required")
	}
	if len(out) > maxTaxIDLen {
		return "", apperrors.Validation("taxId is too long")
	}
	return out, nil
}
