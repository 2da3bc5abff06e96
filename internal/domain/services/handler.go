package services

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"vet-booking/internal/middleware"
	"vet-booking/internal/platform/httpx"
	"vet-booking/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, m *Manager, log logger.Logger) {
	r.Route("/services", func(sr chi.Router) {
		sr.Get("/", listServicesHandler(m, log))
		sr.Get("/{serviceID}", getServiceHandler(m, log))

		sr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)
			ar.Post("/", createServiceHandler(m, log))
			ar.Put("/{serviceID}", updateServiceHandler(m, log))
			ar.Delete("/{serviceID}", deleteServiceHandler(m, log))
		})
	})
}

type serviceRequest struct {
	Name            string          `json:"name" validate:"required,max=120"`
	Description     string          `json:"description" validate:"max=1000"`
	DurationMinutes int             `json:"durationMinutes" validate:"required"`
	Price           decimal.Decimal `json:"price" swaggertype:"string" example:"15000"`
}

type serviceResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price" swaggertype:"string" example:"15000"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (req serviceRequest) input() Input {
	return Input{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	}
}

// listServicesHandler godoc
// @Summary Lista servicios
// @Tags services
// @Produce json
// @Success 200 {array} serviceResponse
// @Router /services [get]
func listServicesHandler(m *Manager, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := m.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]serviceResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toServiceResponse(s))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getServiceHandler godoc
// @Summary Detalle de servicio
// @Tags services
// @Produce json
// @Param serviceID path string true "ID del servicio"
// @Success 200 {object} serviceResponse
// @Failure 404 {object} httpx.ErrorBody
// @Router /services/{serviceID} [get]
func getServiceHandler(m *Manager, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "serviceID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		s, err := m.Get(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toServiceResponse(s))
	}
}

// createServiceHandler godoc
// @Summary Crea un servicio
// @Description durationMinutes debe ser 30 (consulta) o 120 (peluquería).
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body serviceRequest true "Servicio"
// @Success 201 {object} serviceResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 401 {object} httpx.ErrorBody
// @Router /services [post]
func createServiceHandler(m *Manager, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req serviceRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		s, err := m.Create(r.Context(), req.input())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toServiceResponse(s))
	}
}

// updateServiceHandler godoc
// @Summary Actualiza un servicio
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param serviceID path string true "ID del servicio"
// @Param body body serviceRequest true "Servicio"
// @Success 200 {object} serviceResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 404 {object} httpx.ErrorBody
// @Failure 409 {object} httpx.ErrorBody "cambio de duración con citas"
// @Router /services/{serviceID} [put]
func updateServiceHandler(m *Manager, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "serviceID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req serviceRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		s, err := m.Update(r.Context(), id, req.input())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toServiceResponse(s))
	}
}

// deleteServiceHandler godoc
// @Summary Elimina un servicio
// @Description Falla con 409 si alguna cita lo referencia.
// @Tags services
// @Security BearerAuth
// @Param serviceID path string true "ID del servicio"
// @Success 204
// @Failure 404 {object} httpx.ErrorBody
// @Failure 409 {object} httpx.ErrorBody
// @Router /services/{serviceID} [delete]
func deleteServiceHandler(m *Manager, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "serviceID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		if err := m.Delete(r.Context(), id); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toServiceResponse(s Service) serviceResponse {
	return serviceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
