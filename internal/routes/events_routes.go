package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// heartbeatInterval is how often a comment line is sent to keep an
// idle SSE connection from being reaped by an intermediary proxy.
const heartbeatInterval = 30 * time.Second

// eventStream serves gameID's change-event feed as
// `text/event-stream`: one `data: <json>\n\n` per published event,
// plus a `: heartbeat\n\n` comment line every heartbeatInterval.
func (s *Server) eventStream(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDFromPath(r)
	if _, ok := s.store.GameByID(gameID); !ok {
		writeError(w, http.StatusNotFound, "unknown game")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, unsubscribe := s.games.Subscribe(gameID)
	defer unsubscribe()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()

		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
