package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"codepair/internal/api"
)

func New(h *api.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Post("/api/rooms", h.CreateRoom)
	r.Get("/api/rooms/{id}", h.GetRoom)
	r.Post("/api/autocomplete", h.Autocomplete)

	r.Get("/ws/{id}", h.CollabWS)

	return r
}
