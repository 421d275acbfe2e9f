package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pollcast/internal/poll/broadcast"
	"pollcast/internal/poll/models"
)

// Broadcaster hands out live results subscriptions.
type Broadcaster interface {
	Subscribe(pollID string) *broadcast.Subscription
	Unsubscribe(sub *broadcast.Subscription)
}

const resultsEvent = "resultsUpdate"

// handleStream serves a poll's results as Server-Sent Events: the current
// snapshot first, then every update until the client disconnects.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pollID := chi.URLParam(r, "id")

	sub := h.hub.Subscribe(pollID)
	defer h.hub.Unsubscribe(sub)

	snapshot, err := h.service.Results(ctx, pollID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to open results stream")
		return
	}

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, models.ResultsUpdate{PollID: pollID, Results: snapshot}); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.logger.WarnContext(ctx, "results stream cannot flush", "error", err)
		return
	}
	h.logger.DebugContext(ctx, "results stream opened", "poll_id", pollID)

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-sub.Updates():
			if !ok {
				return
			}
			if err := writeEvent(w, update); err != nil {
				return
			}
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w io.Writer, update models.ResultsUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", resultsEvent, data)
	return err
}
