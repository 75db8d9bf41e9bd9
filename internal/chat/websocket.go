package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/identity"
	"github.com/ashureev/panelboard/internal/ui"
	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// NodeRenderer renders a fragment of UI nodes as HTML.
type NodeRenderer interface {
	RenderNodes(w io.Writer, nodes []ui.Node) error
}

// WebSocketHandler serves chat over a websocket.
type WebSocketHandler struct {
	svc            *Service
	hub            *Hub
	renderer       NodeRenderer
	allowedOrigins []string
	isDev          bool
}

// NewWebSocketHandler creates a new websocket chat handler. renderer may be nil,
// in which case replies carry no HTML fragment.
func NewWebSocketHandler(svc *Service, hub *Hub, renderer NodeRenderer, allowedOrigins []string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		svc:            svc,
		hub:            hub,
		renderer:       renderer,
		allowedOrigins: allowedOrigins,
		isDev:          isDev,
	}
}

// wsMessage is a client frame.
type wsMessage struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// wsReply is a server frame.
type wsReply struct {
	Type     string               `json:"type"`
	Content  string               `json:"content,omitempty"`
	Messages []domain.ChatMessage `json:"messages,omitempty"`
	Total    int                  `json:"total,omitempty"`
	HTML     string               `json:"html,omitempty"`
}

// ServeHTTP implements http.Handler for websocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionKey := identity.SessionKeyFromContext(r.Context())
	slog.Info("Chat websocket request", "session_key", sessionKey, "ip", r.RemoteAddr)

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     h.originPatterns(),
		InsecureSkipVerify: h.isDev,
	})
	if err != nil {
		slog.Warn("Failed to accept chat websocket", "error", err, "session_key", sessionKey)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "session_key", sessionKey)
		}
	}()

	h.hub.Register(sessionKey, ws)
	defer h.hub.Unregister(sessionKey, ws)

	h.readLoop(r.Context(), ws, sessionKey)
	slog.Info("Chat websocket ended", "session_key", sessionKey)
}

func (h *WebSocketHandler) originPatterns() []string {
	var patterns []string
	for _, o := range h.allowedOrigins {
		if o == "*" {
			return []string{"*"}
		}
		// Patterns match the host only.
		if _, host, ok := strings.Cut(o, "://"); ok {
			o = host
		}
		patterns = append(patterns, o)
	}
	return patterns
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, sessionKey string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				slog.Debug("Chat websocket closed by client", "session_key", sessionKey)
			} else {
				slog.Warn("Chat websocket read error", "error", err, "session_key", sessionKey)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.writeError(ctx, ws, "invalid_message")
			continue
		}

		switch msg.Type {
		case "message":
			h.handleSubmit(ctx, ws, sessionKey, msg.Content)
		case "history":
			h.handleHistory(ctx, ws, sessionKey)
		case "ping":
			if err := h.writeJSON(ctx, ws, wsReply{Type: "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
		default:
			h.writeError(ctx, ws, "unknown_type")
		}
	}
}

func (h *WebSocketHandler) handleSubmit(ctx context.Context, ws *websocket.Conn, sessionKey, text string) {
	added, history, err := h.svc.Submit(ctx, sessionKey, text)
	switch {
	case errors.Is(err, ErrBlankInput):
		return
	case errors.Is(err, ErrRateLimited):
		h.writeError(ctx, ws, "rate_limited")
		return
	case err != nil:
		slog.Error("Chat submit failed", "error", err, "session_key", sessionKey)
		h.writeError(ctx, ws, "internal_error")
		return
	}
	h.writeMessages(ctx, ws, added, len(history))
}

func (h *WebSocketHandler) handleHistory(ctx context.Context, ws *websocket.Conn, sessionKey string) {
	history, err := h.svc.Start(ctx, sessionKey)
	if err != nil {
		slog.Error("Chat history failed", "error", err, "session_key", sessionKey)
		h.writeError(ctx, ws, "internal_error")
		return
	}
	h.writeMessages(ctx, ws, history, len(history))
}

func (h *WebSocketHandler) writeMessages(ctx context.Context, ws *websocket.Conn, msgs []domain.ChatMessage, total int) {
	reply := wsReply{Type: "messages", Messages: msgs, Total: total}
	if h.renderer != nil {
		var buf bytes.Buffer
		if err := h.renderer.RenderNodes(&buf, MessageNodes(msgs)); err != nil {
			slog.Warn("Failed to render chat fragment", "error", err)
		} else {
			reply.HTML = buf.String()
		}
	}
	if err := h.writeJSON(ctx, ws, reply); err != nil {
		slog.Debug("Failed to send chat messages", "error", err)
	}
}

func (h *WebSocketHandler) writeError(ctx context.Context, ws *websocket.Conn, code string) {
	if err := h.writeJSON(ctx, ws, wsReply{Type: "error", Content: code}); err != nil {
		slog.Debug("Failed to send chat error", "error", err, "code", code)
	}
}

func (h *WebSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
