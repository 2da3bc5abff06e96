package appointments

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-booking/internal/domain/availability"
	"vet-booking/internal/domain/clients"
	"vet-booking/internal/middleware"
	"vet-booking/internal/platform/httpx"
	"vet-booking/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	// Reserva pública (cliente + cita). El path viene del wizard original.
	r.Post("/clients", bookHandler(svc, log))

	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/{appointmentID}/cancel", clientCancelHandler(svc, log))

		ar.Group(func(adm chi.Router) {
			adm.Use(middleware.RequireAdmin)
			adm.Get("/", listAppointmentsHandler(svc, log))
			adm.Get("/{appointmentID}", getAppointmentHandler(svc, log))
			adm.Put("/{appointmentID}", updateAppointmentHandler(svc, log))
			adm.Delete("/{appointmentID}", cancelAppointmentHandler(svc, log))
		})
	})
}

type bookRequest struct {
	FirstName string `json:"firstName" validate:"required,max=80"`
	LastName  string `json:"lastName" validate:"required,max=80"`
	TaxID     string `json:"taxId" validate:"required,max=20"`
	Phone     string `json:"phone" validate:"max=30"`
	Email     string `json:"email" validate:"omitempty,email"`

	PetName    string `json:"petName" validate:"required,max=80"`
	PetSpecies string `json:"petSpecies" validate:"omitempty,oneof=dog cat other"`
	PetBreed   string `json:"petBreed" validate:"max=80"`

	ServiceID      string `json:"serviceId" validate:"required"`
	ProfessionalID string `json:"professionalId"`
	Date           string `json:"date" validate:"required" example:"2024-06-10"`
	Time           string `json:"time" validate:"required" example:"09:30"`
	Notes          string `json:"notes" validate:"max=500"`
}

type bookResponse struct {
	Message       string `json:"message"`
	ClientID      string `json:"clientId"`
	AppointmentID string `json:"appointmentId"`
	Status        Status `json:"status"`
}

type updateRequest struct {
	Date   *string `json:"date" example:"2024-06-11"`
	Time   *string `json:"time" example:"10:00"`
	Status *string `json:"status" example:"confirmed"`
}

type clientCancelRequest struct {
	TaxID string `json:"taxId" validate:"required"`
}

type appointmentResponse struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"clientId"`
	ClientName       string    `json:"clientName,omitempty"`
	ClientTaxID      string    `json:"clientTaxId,omitempty"`
	ClientPhone      string    `json:"clientPhone,omitempty"`
	ClientEmail      string    `json:"clientEmail,omitempty"`
	PetName          string    `json:"petName,omitempty"`
	ServiceID        string    `json:"serviceId"`
	ServiceName      string    `json:"serviceName,omitempty"`
	ProfessionalID   string    `json:"professionalId,omitempty"`
	ProfessionalName string    `json:"professionalName,omitempty"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Status           Status    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// bookHandler godoc
// @Summary Reserva una hora
// @Description Busca el cliente por RUT (o lo crea) y agenda la cita en estado pending, en una sola transacción.
// @Tags appointments
// @Accept json
// @Produce json
// @Param body body bookRequest true "Datos del cliente, mascota y hora"
// @Success 201 {object} bookResponse
// @Failure 400 {object} httpx.ErrorBody "campos faltantes o inválidos"
// @Failure 404 {object} httpx.ErrorBody "servicio o profesional no existe"
// @Failure 409 {object} httpx.ErrorBody "la hora ya no está disponible"
// @Router /clients [post]
func bookHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		serviceID, err := httpx.ParseID("serviceId", req.ServiceID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		professionalID, err := httpx.OptionalID("professionalId", req.ProfessionalID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		a, err := svc.Book(r.Context(), BookInput{
			Client: clients.Input{
				FirstName:  req.FirstName,
				LastName:   req.LastName,
				TaxID:      req.TaxID,
				Phone:      req.Phone,
				Email:      req.Email,
				PetName:    req.PetName,
				PetSpecies: req.PetSpecies,
				PetBreed:   req.PetBreed,
			},
			ServiceID:      serviceID,
			ProfessionalID: professionalID,
			Date:           req.Date,
			Time:           req.Time,
			Notes:          req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		log.Info("appointment booked", map[string]any{
			"appointment_id": a.ID,
			"service_id":     a.ServiceID,
			"date":           a.Date.Format(availability.DateLayout),
			"time":           a.Slot.String(),
		})

		httpx.WriteJSON(w, http.StatusCreated, bookResponse{
			Message:       "appointment booked",
			ClientID:      a.ClientID,
			AppointmentID: a.ID,
			Status:        a.Status,
		})
	}
}

// listAppointmentsHandler godoc
// @Summary Lista citas
// @Description Vista con nombres de cliente, mascota, servicio y profesional. Orden: fecha, hora.
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param date query string false "Fecha YYYY-MM-DD"
// @Param status query string false "pending | confirmed | cancelled"
// @Param serviceId query string false "ID del servicio"
// @Success 200 {array} appointmentResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 401 {object} httpx.ErrorBody
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		serviceID, err := httpx.OptionalID("serviceId", q.Get("serviceId"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		items, err := svc.List(r.Context(), ListQuery{
			Date:      q.Get("date"),
			Status:    q.Get("status"),
			ServiceID: serviceID,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDetailResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getAppointmentHandler godoc
// @Summary Detalle de cita
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param appointmentID path string true "ID de la cita"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 404 {object} httpx.ErrorBody
// @Router /appointments/{appointmentID} [get]
func getAppointmentHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "appointmentID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		d, err := svc.GetDetail(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDetailResponse(d))
	}
}

// updateAppointmentHandler godoc
// @Summary Actualiza una cita
// @Description Cambio parcial de fecha, hora y/o estado. Al reagendar se vuelve a verificar el cupo.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param appointmentID path string true "ID de la cita"
// @Param body body updateRequest true "Campos a cambiar"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorBody "sin campos o id inválido"
// @Failure 404 {object} httpx.ErrorBody
// @Failure 409 {object} httpx.ErrorBody "transición inválida o sin cupo"
// @Router /appointments/{appointmentID} [put]
func updateAppointmentHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "appointmentID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req updateRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		a, err := svc.Update(r.Context(), id, UpdateInput{
			Date:   req.Date,
			Time:   req.Time,
			Status: req.Status,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// cancelAppointmentHandler godoc
// @Summary Cancela una cita (admin)
// @Description La cita queda en estado cancelled y libera su hora.
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param appointmentID path string true "ID de la cita"
// @Success 200 {object} appointmentResponse
// @Failure 404 {object} httpx.ErrorBody
// @Router /appointments/{appointmentID} [delete]
func cancelAppointmentHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "appointmentID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		a, err := svc.Cancel(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// clientCancelHandler godoc
// @Summary Cancela una cita (cliente)
// @Description El cliente prueba que la cita es suya con su RUT.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Param body body clientCancelRequest true "RUT del cliente"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 404 {object} httpx.ErrorBody
// @Router /appointments/{appointmentID}/cancel [post]
func clientCancelHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "appointmentID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req clientCancelRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		a, err := svc.ClientCancel(r.Context(), id, req.TaxID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:             a.ID,
		ClientID:       a.ClientID,
		ServiceID:      a.ServiceID,
		ProfessionalID: a.ProfessionalID,
		Date:           a.Date.Format(availability.DateLayout),
		Time:           a.Slot.String(),
		Status:         a.Status,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toDetailResponse(d Detail) appointmentResponse {
	out := toAppointmentResponse(d.Appointment)
	out.ClientName = d.ClientName
	out.ClientTaxID = d.ClientTaxID
	out.ClientPhone = d.ClientPhone
	out.ClientEmail = d.ClientEmail
	out.PetName = d.PetName
	out.ServiceName = d.ServiceName
	out.ProfessionalName = d.ProfessionalName
	return out
}
