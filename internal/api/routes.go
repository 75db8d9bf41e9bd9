package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxJSONBody = 64 << 10

// RegisterRoutes registers the page and panel routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Page)
	r.Get("/panels/{panel}", h.Page)
	r.Post("/panels/chat-simulator/chat", h.ChatForm)
	r.Post("/panels/{panel}/upload", h.Upload)

	r.Route("/api", func(r chi.Router) {
		r.Get("/page", h.Page)
		r.Get("/page/{panel}", h.Page)
		r.Post("/chat", h.ChatAPI)
		r.Get("/counter/stream", h.CounterStream)
	})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(v)
}
