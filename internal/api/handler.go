// Package api provides HTTP handlers for the panelboard server.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/ashureev/panelboard/internal/app"
	"github.com/ashureev/panelboard/internal/chat"
	"github.com/ashureev/panelboard/internal/config"
	"github.com/ashureev/panelboard/internal/ui"
)

// PageRenderer writes a page as an HTML document.
type PageRenderer interface {
	Render(w io.Writer, page ui.Page) error
}

// Handler serves pages and the panel endpoints.
type Handler struct {
	app  *app.App
	chat *chat.Service
	html PageRenderer
	cfg  *config.Config
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(a *app.App, chatSvc *chat.Service, html PageRenderer, cfg *config.Config) *Handler {
	return &Handler{
		app:  a,
		chat: chatSvc,
		html: html,
		cfg:  cfg,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// wantsJSON reports whether the client asked for the page tree instead of HTML.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Query().Get("format") == "json" {
		return true
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case "application/json":
			return true
		case "text/html":
			return false
		}
	}
	return false
}

// writePage renders page as HTML or JSON depending on the request.
func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, page ui.Page) {
	if wantsJSON(r) {
		JSON(w, http.StatusOK, page)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.html.Render(w, page); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render page", "error", err, "panel", page.Panel)
		Error(w, http.StatusInternalServerError, "failed to render page")
	}
}
