package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ashureev/panelboard/internal/app"
	"github.com/ashureev/panelboard/internal/chat"
	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/identity"
	"github.com/go-chi/chi/v5"
)

// panelFromRequest reads the panel from the path, falling back to ?panel=.
func panelFromRequest(r *http.Request) (domain.Panel, error) {
	id := chi.URLParam(r, "panel")
	if id == "" {
		id = r.URL.Query().Get("panel")
	}
	return domain.ParsePanel(id)
}

// render runs one render pass for the current session and persists new chat entries.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, st app.State, ev app.Event) {
	ctx := r.Context()
	key := identity.SessionKeyFromContext(ctx)

	history, err := h.chat.History(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load chat history", "error", err, "session_key", key)
		Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	st.History = history

	page, next, err := h.app.Render(ctx, st, ev)
	if errors.Is(err, domain.ErrUnknownPanel) {
		Error(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Render failed", "error", err, "panel", st.Panel)
		Error(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	if len(next.Pending) > 0 {
		if _, err := h.chat.Save(ctx, key, next.Pending...); err != nil {
			slog.ErrorContext(ctx, "Failed to save chat history", "error", err, "session_key", key)
			Error(w, http.StatusInternalServerError, "failed to save session")
			return
		}
	}

	h.writePage(w, r, page)
}

// Page renders the selected panel.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	panel, err := panelFromRequest(r)
	if err != nil {
		Error(w, http.StatusNotFound, err.Error())
		return
	}
	h.render(w, r, app.State{Panel: panel}, app.Load{})
}

// ChatForm handles a chat prompt posted from the chat panel form.
func (h *Handler) ChatForm(w http.ResponseWriter, r *http.Request) {
	text := r.FormValue("prompt")
	if strings.TrimSpace(text) != "" && !h.chat.Allow(identity.SessionKeyFromContext(r.Context())) {
		Error(w, http.StatusTooManyRequests, chat.ErrRateLimited.Error())
		return
	}
	h.render(w, r, app.State{Panel: domain.PanelChatSimulator}, app.ChatSubmit{Text: text})
}

type chatRequest struct {
	Content string `json:"content"`
}

type chatResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
	History  domain.ChatHistory   `json:"history"`
}

// ChatAPI accepts a prompt as JSON {"content": ...} or form field prompt and
// returns the entries it added along with the full history.
func (h *Handler) ChatAPI(w http.ResponseWriter, r *http.Request) {
	var text string
	if mt := r.Header.Get("Content-Type"); strings.HasPrefix(mt, "application/json") {
		var req chatRequest
		if err := decodeJSON(r, &req); err != nil {
			Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		text = req.Content
	} else {
		text = r.FormValue("prompt")
	}

	ctx := r.Context()
	key := identity.SessionKeyFromContext(ctx)
	added, history, err := h.chat.Submit(ctx, key, text)
	switch {
	case errors.Is(err, chat.ErrBlankInput):
		Error(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, chat.ErrRateLimited):
		Error(w, http.StatusTooManyRequests, err.Error())
		return
	case err != nil:
		slog.ErrorContext(ctx, "Chat submit failed", "error", err, "session_key", key)
		Error(w, http.StatusInternalServerError, "failed to save message")
		return
	}

	JSON(w, http.StatusOK, chatResponse{Messages: added, History: history})
}
