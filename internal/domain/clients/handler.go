package clients

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-booking/internal/middleware"
	"vet-booking/internal/platform/httpx"
	"vet-booking/internal/platform/logger"
)

// RegisterRoutes monta la mantención del admin. POST /clients (reserva)
// lo registra appointments sobre el mismo path.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Group(func(ar chi.Router) {
		ar.Use(middleware.RequireAdmin)
		ar.Get("/clients", listClientsHandler(svc, log))
		ar.Get("/clients/{clientID}", getClientHandler(svc, log))
		ar.Put("/clients/{clientID}", updateClientHandler(svc, log))
		ar.Delete("/clients/{clientID}", deleteClientHandler(svc, log))
	})
}

type clientRequest struct {
	FirstName string `json:"firstName" validate:"required,max=80"`
	LastName  string `json:"lastName" validate:"required,max=80"`
	TaxID     string `json:"taxId" validate:"required,max=20"`
	Phone     string `json:"phone" validate:"max=30"`
	Email     string `json:"email" validate:"omitempty,email"`

	PetName    string `json:"petName" validate:"required,max=80"`
	PetSpecies string `json:"petSpecies" validate:"omitempty,oneof=dog cat other"`
	PetBreed   string `json:"petBreed" validate:"max=80"`
}

func (req clientRequest) input() Input {
	return Input{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		TaxID:      req.TaxID,
		Phone:      req.Phone,
		Email:      req.Email,
		PetName:    req.PetName,
		PetSpecies: req.PetSpecies,
		PetBreed:   req.PetBreed,
	}
}

type petResponse struct {
	Name    string  `json:"name"`
	Species Species `json:"species"`
	Breed   string  `json:"breed"`
}

type clientResponse struct {
	ID        string      `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	TaxID     string      `json:"taxId"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email"`
	Pet       petResponse `json:"pet"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// listClientsHandler godoc
// @Summary Lista clientes
// @Description Con taxId devuelve a lo más un cliente.
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param taxId query string false "RUT del cliente"
// @Success 200 {array} clientResponse
// @Failure 401 {object} httpx.ErrorBody
// @Router /clients [get]
func listClientsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if taxID := strings.TrimSpace(r.URL.Query().Get("taxId")); taxID != "" {
			c, err := svc.GetByTaxID(r.Context(), taxID)
			if err != nil {
				httpx.WriteError(w, r, log, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, []clientResponse{toClientResponse(c)})
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]clientResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toClientResponse(c))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getClientHandler godoc
// @Summary Detalle de cliente
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param clientID path string true "ID del cliente"
// @Success 200 {object} clientResponse
// @Failure 404 {object} httpx.ErrorBody
// @Router /clients/{clientID} [get]
func getClientHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "clientID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		c, err := svc.GetByID(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toClientResponse(c))
	}
}

// updateClientHandler godoc
// @Summary Corrige un cliente
// @Description Reemplaza contacto y mascota. El RUT se puede corregir si no pertenece a otro cliente.
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientID path string true "ID del cliente"
// @Param body body clientRequest true "Cliente"
// @Success 200 {object} clientResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 404 {object} httpx.ErrorBody
// @Failure 409 {object} httpx.ErrorBody "RUT de otro cliente"
// @Router /clients/{clientID} [put]
func updateClientHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "clientID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req clientRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		c, err := svc.Update(r.Context(), id, req.input())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toClientResponse(c))
	}
}

// deleteClientHandler godoc
// @Summary Elimina un cliente
// @Description Falla con 409 si el cliente tiene citas.
// @Tags clients
// @Security BearerAuth
// @Param clientID path string true "ID del cliente"
// @Success 204
// @Failure 404 {object} httpx.ErrorBody
// @Failure 409 {object} httpx.ErrorBody
// @Router /clients/{clientID} [delete]
func deleteClientHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "clientID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toClientResponse(c Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		TaxID:     c.TaxID,
		Phone:     c.Phone,
		Email:     c.Email,
		Pet: petResponse{
			Name:    c.Pet.Name,
			Species: c.Pet.Species,
			Breed:   c.Pet.Breed,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
