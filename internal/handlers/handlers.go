package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"vodscraper/internal/mirror"
	"vodscraper/internal/scraper"
	"vodscraper/internal/twitch"
	"vodscraper/pkg/tasks"
)

// VideoScraper is one scraping session, created per request.
type VideoScraper interface {
	ScrapeVideo(ctx context.Context, videoID string, limitPages int, onProgress func(scraper.Progress)) error
}

type Handlers struct {
	asynqClient tasks.TaskEnqueuer
	newSession  func(oauthToken string) VideoScraper
}

func New(asynqClient tasks.TaskEnqueuer) *Handlers {
	return &Handlers{
		asynqClient: asynqClient,
		newSession: func(oauthToken string) VideoScraper {
			return scraper.New(twitch.NewClient(oauthToken), mirror.NewFromEnv())
		},
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// oauthToken prefers an explicit token from the request over the process env.
func oauthToken(r *http.Request) string {
	if tok := r.FormValue("oauth"); tok != "" {
		return tok
	}
	return os.Getenv("TWITCH_OAUTH_TOKEN")
}
