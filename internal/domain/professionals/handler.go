package professionals

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-booking/internal/middleware"
	"vet-booking/internal/platform/httpx"
	"vet-booking/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/professionals", func(pr chi.Router) {
		// Público: solo activos (wizard de reserva)
		pr.Get("/", listActiveHandler(svc, log))

		pr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)
			ar.Get("/all", listAllHandler(svc, log))
			ar.Post("/", createProfessionalHandler(svc, log))
			ar.Put("/{professionalID}", updateProfessionalHandler(svc, log))
			ar.Delete("/{professionalID}", deactivateProfessionalHandler(svc, log))
		})
	})
}

type professionalRequest struct {
	FirstName string `json:"firstName" validate:"required,max=80"`
	LastName  string `json:"lastName" validate:"max=80"`
	Phone     string `json:"phone" validate:"max=30"`
	Email     string `json:"email" validate:"omitempty,email"`
	ServiceID string `json:"serviceId" validate:"required,uuid"`
	Active    *bool  `json:"active"`
}

type professionalResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	ServiceID string    `json:"serviceId"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (req professionalRequest) input() Input {
	return Input{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		ServiceID: req.ServiceID,
		Active:    req.Active,
	}
}

// listActiveHandler godoc
// @Summary Profesionales activos
// @Tags professionals
// @Produce json
// @Param serviceId query string false "Filtra por servicio"
// @Success 200 {array} professionalResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /professionals [get]
func listActiveHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, err := httpx.OptionalID("serviceId", r.URL.Query().Get("serviceId"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		writeList(w, r, svc, log, ListFilter{ServiceID: serviceID, ActiveOnly: true})
	}
}

// listAllHandler godoc
// @Summary Todos los profesionales (incluye inactivos)
// @Tags professionals
// @Produce json
// @Security BearerAuth
// @Param serviceId query string false "Filtra por servicio"
// @Success 200 {array} professionalResponse
// @Failure 401 {object} httpx.ErrorBody
// @Router /professionals/all [get]
func listAllHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, err := httpx.OptionalID("serviceId", r.URL.Query().Get("serviceId"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		writeList(w, r, svc, log, ListFilter{ServiceID: serviceID})
	}
}

func writeList(w http.ResponseWriter, r *http.Request, svc *Service, log logger.Logger, f ListFilter) {
	items, err := svc.List(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, log, err)
		return
	}

	out := make([]professionalResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProfessionalResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// createProfessionalHandler godoc
// @Summary Crea un profesional
// @Tags professionals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body professionalRequest true "Profesional"
// @Success 201 {object} professionalResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /professionals [post]
func createProfessionalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req professionalRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		p, err := svc.Create(r.Context(), req.input())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toProfessionalResponse(p))
	}
}

// updateProfessionalHandler godoc
// @Summary Actualiza un profesional
// @Tags professionals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param professionalID path string true "ID del profesional"
// @Param body body professionalRequest true "Profesional"
// @Success 200 {object} professionalResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 404 {object} httpx.ErrorBody
// @Router /professionals/{professionalID} [put]
func updateProfessionalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "professionalID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req professionalRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		p, err := svc.Update(r.Context(), id, req.input())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProfessionalResponse(p))
	}
}

// deactivateProfessionalHandler godoc
// @Summary Desactiva un profesional
// @Description No borra: deja de contar como capacidad y desaparece del listado público.
// @Tags professionals
// @Security BearerAuth
// @Param professionalID path string true "ID del profesional"
// @Success 204
// @Failure 404 {object} httpx.ErrorBody
// @Router /professionals/{professionalID} [delete]
func deactivateProfessionalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "professionalID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toProfessionalResponse(p Professional) professionalResponse {
	return professionalResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Phone:     p.Phone,
		Email:     p.Email,
		ServiceID: p.ServiceID,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
