package availability

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"vet-booking/internal/platform/httpx"
	"vet-booking/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/availability", func(ar chi.Router) {
		ar.Get("/", availableSlotsHandler(svc, log))
		ar.Get("/occupied", occupiedSlotsHandler(svc, log))
	})
}

type availabilityResponse struct {
	Date           string     `json:"date"`
	ServiceID      string     `json:"serviceId"`
	ProfessionalID string     `json:"professionalId,omitempty"`
	AvailableSlots []SlotTime `json:"availableSlots" swaggertype:"array,string" example:"09:00,09:30"`
}

type occupiedSlot struct {
	Time  SlotTime `json:"time" swaggertype:"string" example:"09:00"`
	Count int      `json:"count"`
}

type occupiedResponse struct {
	Date      string         `json:"date"`
	ServiceID string         `json:"serviceId"`
	Occupied  []occupiedSlot `json:"occupied"`
}

// availableSlotsHandler godoc
// @Summary Horas disponibles
// @Description Slots reservables para una fecha y servicio. Con professionalId la capacidad es 1 y solo cuentan las citas de ese profesional. Un servicio sin profesionales activos no tiene horas.
// @Tags availability
// @Produce json
// @Param date query string true "Fecha YYYY-MM-DD"
// @Param serviceId query string true "ID del servicio"
// @Param professionalId query string false "ID del profesional"
// @Success 200 {object} availabilityResponse
// @Failure 400 {object} httpx.ErrorBody "fecha o ids inválidos"
// @Failure 404 {object} httpx.ErrorBody "servicio no encontrado"
// @Failure 500 {object} httpx.ErrorBody "internal error"
// @Router /availability [get]
func availableSlotsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		// La fecha se valida primero (antes que ids y store).
		if _, err := ParseDate(q.Get("date")); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		serviceID, err := httpx.ParseID("serviceId", q.Get("serviceId"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		professionalID, err := httpx.OptionalID("professionalId", q.Get("professionalId"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		slots, err := svc.AvailableSlots(r.Context(), Query{
			Date:           q.Get("date"),
			ServiceID:      serviceID,
			ProfessionalID: professionalID,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, availabilityResponse{
			Date:           q.Get("date"),
			ServiceID:      serviceID,
			ProfessionalID: professionalID,
			AvailableSlots: slots,
		})
	}
}

// occupiedSlotsHandler godoc
// @Summary Horas ocupadas
// @Description Cantidad de citas activas por hora para una fecha y servicio.
// @Tags availability
// @Produce json
// @Param date query string true "Fecha YYYY-MM-DD"
// @Param serviceId query string true "ID del servicio"
// @Success 200 {object} occupiedResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /availability/occupied [get]
func occupiedSlotsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if _, err := ParseDate(q.Get("date")); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		serviceID, err := httpx.ParseID("serviceId", q.Get("serviceId"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		occupied, err := svc.Occupancy(r.Context(), q.Get("date"), serviceID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]occupiedSlot, 0, len(occupied))
		for slot, n := range occupied {
			if n <= 0 {
				continue
			}
			out = append(out, occupiedSlot{Time: slot, Count: n})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })

		httpx.WriteJSON(w, http.StatusOK, occupiedResponse{
			Date:      q.Get("date"),
			ServiceID: serviceID,
			Occupied:  out,
		})
	}
}
