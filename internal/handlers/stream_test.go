package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"vodscraper/internal/scraper"
)

type stubSession struct {
	events []scraper.Progress
	err    error
	delay  time.Duration
}

func (s *stubSession) ScrapeVideo(ctx context.Context, videoID string, limitPages int, onProgress func(scraper.Progress)) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return s.err
	}
	for _, e := range s.events {
		onProgress(e)
	}
	return nil
}

func streamRequest(t *testing.T, h *Handlers, videoID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/videos/{id}/scrape-stream", h.ScrapeStream).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/videos/"+videoID+"/scrape-stream", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestScrapeStreamEmitsEventsAndCloses(t *testing.T) {
	stub := &stubSession{events: []scraper.Progress{
		{Page: 1, Offset: 10, TotalSeconds: 120, Percent: 8, VideoTitle: "Test VOD"},
		{Page: 2, Offset: 65, TotalSeconds: 120, Percent: 54, VideoTitle: "Test VOD"},
		{Page: 3, Offset: 122, TotalSeconds: 120, Percent: 100, Done: true, VideoTitle: "Test VOD"},
	}}
	h := &Handlers{newSession: func(string) VideoScraper { return stub }}

	rr := streamRequest(t, h, "v123")

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, `"percent":8`)
	assert.Contains(t, body, `"percent":54`)
	assert.Contains(t, body, `"done":true`)
	assert.Equal(t, 3, strings.Count(body, "data: "))
}

func TestScrapeStreamReportsErrorAsEvent(t *testing.T) {
	stub := &stubSession{err: errors.New("gql request failed: boom")}
	h := &Handlers{newSession: func(string) VideoScraper { return stub }}

	rr := streamRequest(t, h, "v123")

	body := rr.Body.String()
	assert.Contains(t, body, `"error":"gql request failed: boom"`)
	assert.Contains(t, body, `"done":true`)
}

func TestScrapeStreamHeartbeat(t *testing.T) {
	original := heartbeatInterval
	heartbeatInterval = 20 * time.Millisecond
	defer func() { heartbeatInterval = original }()

	stub := &stubSession{
		delay:  80 * time.Millisecond,
		events: []scraper.Progress{{Percent: 100, Done: true}},
	}
	h := &Handlers{newSession: func(string) VideoScraper { return stub }}

	rr := streamRequest(t, h, "v123")

	body := rr.Body.String()
	assert.Contains(t, body, ": heartbeat")
	assert.Contains(t, body, `"done":true`)
}
