package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vodscraper/internal/db"
	"vodscraper/pkg/tasks"
)

// ScrapeVideo runs a blocking scrape of one VOD. Mostly useful for small
// videos and manual testing; the worker queue is the normal path.
func (h *Handlers) ScrapeVideo(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["id"]

	limitPages := 0
	if pages := r.URL.Query().Get("pages"); pages != "" {
		n, err := strconv.Atoi(pages)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pages must be an integer"})
			return
		}
		limitPages = n
	}

	session := h.newSession(oauthToken(r))
	if err := session.ScrapeVideo(r.Context(), videoID, limitPages, nil); err != nil {
		log.Printf("Blocking scrape of video %s failed: %v", videoID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": fmt.Sprintf("Scraping of video %s completed.", videoID)})
}

// CreateClassificationTask queues toxicity scoring for one video. Only one
// task per video may be pending or in progress at a time; re-runs after
// completion are allowed by design.
func (h *Handlers) CreateClassificationTask(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["id"]

	active, err := db.HasActiveClassificationTask(videoID)
	if err != nil {
		log.Printf("Failed to check classification tasks for video %s: %v", videoID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if active {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a classification task for this video is already active"})
		return
	}

	task, err := db.CreateClassificationTask(videoID)
	if err != nil {
		log.Printf("Failed to create classification task for video %s: %v", videoID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": task.ID, "status": task.Status})
}

// TriggerSync enqueues an immediate VOD auto-sync run.
func (h *Handlers) TriggerSync(w http.ResponseWriter, r *http.Request) {
	task, err := tasks.NewSyncVODsTask()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		log.Printf("Failed to enqueue VOD sync: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
