package admins

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-booking/internal/middleware"
	"vet-booking/internal/platform/httpx"
	"vet-booking/internal/platform/logger"
)

// RegisterRoutes: loginLimit limita intentos de login por IP (nil => sin límite).
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger, loginLimit func(http.Handler) http.Handler) {
	r.Route("/admin", func(ar chi.Router) {
		if loginLimit != nil {
			ar.With(loginLimit).Post("/login", loginHandler(svc, log))
		} else {
			ar.Post("/login", loginHandler(svc, log))
		}

		ar.With(middleware.RequireAdmin).Get("/me", meHandler(svc, log))
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

type meResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// loginHandler godoc
// @Summary Login del admin
// @Description Verifica la password (bcrypt) y devuelve un token Bearer con vencimiento.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 401 {object} httpx.ErrorBody
// @Failure 429 {object} httpx.ErrorBody
// @Router /admin/login [post]
func loginHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		sess, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			log.Warn("admin login failed", map[string]any{
				"username": req.Username,
				"ip":       r.RemoteAddr,
			})
			httpx.WriteError(w, r, log, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, loginResponse{
			Token:     sess.Token,
			TokenType: "Bearer",
			ExpiresAt: sess.ExpiresAt,
			Username:  sess.Admin.Username,
		})
	}
}

// meHandler godoc
// @Summary Admin autenticado
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} meResponse
// @Failure 401 {object} httpx.ErrorBody
// @Router /admin/me [get]
func meHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		a, err := svc.GetByID(r.Context(), claims.AdminID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, meResponse{
			ID:        a.ID,
			Username:  a.Username,
			ExpiresAt: claims.ExpiresAt,
		})
	}
}
