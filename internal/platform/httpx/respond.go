// Package httpx junta los helpers HTTP que comparten todos los handlers
// (respuesta JSON, mapeo de errores, decode + validación).
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/platform/logger"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorBody es el cuerpo de toda respuesta de error.
type ErrorBody struct {
	Error string `json:"error"`
}

type MessageBody struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageBody{Message: msg})
}

// WriteError traduce el kind del error a status HTTP.
// Validation/NotFound/Conflict muestran su mensaje (es input del usuario);
// DataAccess/Configuration se loguean y salen con un mensaje genérico.
func WriteError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, msg := StatusFor(err)

	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed", map[string]any{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"err":        err,
		})
	}

	WriteJSON(w, status, ErrorBody{Error: msg})
}

func StatusFor(err error) (int, string) {
	switch apperrors.Kind(err) {
	case apperrors.ErrValidation:
		return http.StatusBadRequest, err.Error()
	case apperrors.ErrNotFound:
		return http.StatusNotFound, err.Error()
	case apperrors.ErrConflict:
		return http.StatusConflict, err.Error()
	case apperrors.ErrInvalidTransition:
		return http.StatusConflict, err.Error()
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case apperrors.ErrConfiguration:
		return http.StatusInternalServerError, "service misconfigured"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// DecodeJSON decodifica el body y corre las reglas `validate` del struct.
// Cualquier falla sale como ErrValidation.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("empty body")
		}
		return apperrors.Validation("invalid json")
	}
	return Validate(dst)
}

func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", jsonFieldName(fe), fe.Tag()))
			}
			return apperrors.Validation("invalid fields: %s", strings.Join(fields, ", "))
		}
		return apperrors.Validation("%s", err.Error())
	}
	return nil
}

// jsonFieldName pasa "CreateInput.ServiceID" a "serviceID" para que el mensaje
// se parezca al payload que mandó el cliente.
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.Namespace()
	}
	return strings.ToLower(name[:1]) + name[1:]
}
