package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ashureev/panelboard/internal/counter"
)

// CounterStream streams the live counter as server-sent events: one progress
// event per step, then a single complete event. Each connection runs its own
// sequence, which stops when the client disconnects.
func (h *Handler) CounterStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	err := counter.Run(r.Context(), h.cfg.CounterInterval, func(step *counter.Step, done *counter.Completion) error {
		event, payload := "progress", any(step)
		if done != nil {
			event, payload = "complete", done
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if err := writeSSE(w, event, string(data)); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	switch {
	case err == nil:
		slog.DebugContext(r.Context(), "Counter stream completed")
	case errors.Is(err, context.Canceled):
		slog.DebugContext(r.Context(), "Counter stream cancelled by client")
	default:
		slog.WarnContext(r.Context(), "Counter stream failed", "error", err)
	}
}

func writeSSE(w io.Writer, event, data string) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
