package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"vodscraper/internal/scraper"
)

// How long the stream may stay silent before a keep-alive comment is sent.
var heartbeatInterval = 60 * time.Second

// ScrapeStream scrapes a VOD while streaming progress to the caller as
// Server-Sent Events. The engine runs on its own goroutine and pushes events
// into a bounded channel; this handler drains it, injecting heartbeats when
// the engine is quiet, until a done or error event closes the stream.
func (h *Handlers) ScrapeStream(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["id"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	ctx := r.Context()
	events := make(chan scraper.Progress, 64)
	push := func(p scraper.Progress) {
		select {
		case events <- p:
		case <-ctx.Done():
		}
	}

	session := h.newSession(oauthToken(r))
	go func() {
		if err := session.ScrapeVideo(ctx, videoID, 0, push); err != nil {
			push(scraper.Progress{Error: err.Error(), Done: true})
		}
	}()

	for {
		select {
		case p := <-events:
			payload, err := json.Marshal(p)
			if err != nil {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			if p.Done {
				return
			}
		case <-time.After(heartbeatInterval):
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
