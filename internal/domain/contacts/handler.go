package contacts

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-booking/internal/middleware"
	"vet-booking/internal/platform/httpx"
	"vet-booking/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/contacts", createContactHandler(svc, log))
	r.With(middleware.RequireAdmin).Get("/contacts", listContactsHandler(svc, log))
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Message string `json:"message" validate:"required,max=2000"`
}

type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// createContactHandler godoc
// @Summary Envía un mensaje de contacto
// @Tags contacts
// @Accept json
// @Produce json
// @Param body body contactRequest true "Mensaje"
// @Success 201 {object} httpx.MessageBody
// @Failure 400 {object} httpx.ErrorBody
// @Router /contacts [post]
func createContactHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		if _, err := svc.Create(r.Context(), Input{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
			Body:  req.Message,
		}); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteMessage(w, http.StatusCreated, "message received")
	}
}

// listContactsHandler godoc
// @Summary Lista mensajes de contacto
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} contactResponse
// @Failure 401 {object} httpx.ErrorBody
// @Router /contacts [get]
func listContactsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]contactResponse, 0, len(items))
		for _, m := range items {
			out = append(out, contactResponse{
				ID:        m.ID,
				Name:      m.Name,
				Email:     m.Email,
				Phone:     m.Phone,
				Message:   m.Body,
				CreatedAt: m.CreatedAt,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}
