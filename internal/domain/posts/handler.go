package posts

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-booking/internal/middleware"
	"vet-booking/internal/platform/httpx"
	"vet-booking/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/posts", func(pr chi.Router) {
		pr.Get("/", listPostsHandler(svc, log))
		pr.Get("/{postID}", getPostHandler(svc, log))

		pr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)
			ar.Post("/", createPostHandler(svc, log))
			ar.Put("/{postID}", updatePostHandler(svc, log))
			ar.Delete("/{postID}", deletePostHandler(svc, log))
		})
	})
}

type postRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Content     string     `json:"content" validate:"required"`
	ImageURL    string     `json:"imageUrl" validate:"omitempty,url,max=500"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type postResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (req postRequest) input() Input {
	return Input{
		Title:       req.Title,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		PublishedAt: req.PublishedAt,
	}
}

// listPostsHandler godoc
// @Summary Lista entradas del blog
// @Tags posts
// @Produce json
// @Success 200 {array} postResponse
// @Router /posts [get]
func listPostsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]postResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPostResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getPostHandler godoc
// @Summary Detalle de entrada
// @Tags posts
// @Produce json
// @Param postID path string true "ID de la entrada"
// @Success 200 {object} postResponse
// @Failure 404 {object} httpx.ErrorBody
// @Router /posts/{postID} [get]
func getPostHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "postID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		p, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPostResponse(p))
	}
}

// createPostHandler godoc
// @Summary Crea una entrada
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body postRequest true "Entrada"
// @Success 201 {object} postResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /posts [post]
func createPostHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		p, err := svc.Create(r.Context(), req.input())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPostResponse(p))
	}
}

// updatePostHandler godoc
// @Summary Actualiza una entrada
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postID path string true "ID de la entrada"
// @Param body body postRequest true "Entrada"
// @Success 200 {object} postResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 404 {object} httpx.ErrorBody
// @Router /posts/{postID} [put]
func updatePostHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "postID")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req postRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		p, err := svc.Update(r.Context(), id, req.input())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPostResponse(p))
	}
}

// deletePostHandler godoc
// @Summary Elimina una entrada
// @Tags posts
// @Security BearerAuth
// @Param postID path string true "ID de la entrada"
// @Success 204
// @Failure 404 {object} httpx.ErrorBody
// @Router /posts/{postID} [delete]
func deletePostHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "postID")
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

func toPostResponse(p Post) postResponse {
	return postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		ImageURL:    p.ImageURL,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
