package worker

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"vodscraper/internal/db"
	"vodscraper/internal/twitch"
)

const (
	vodFetchLimit = 20
	// VODs newer than this get re-queued even when already scraped: the
	// broadcast may have still been live on the first pass, so a re-run can
	// pick up the tail of the comment stream.
	refreshWindow = 48 * time.Hour
)

// SyncHandler runs the periodic VOD auto-sync: for every tracked streamer it
// re-syncs the profile, lists recent archive VODs and queues scrape tasks for
// anything new or fresh.
type SyncHandler struct {
	newClient func() *twitch.Client
}

func NewSyncHandler() *SyncHandler {
	return &SyncHandler{
		newClient: func() *twitch.Client {
			return twitch.NewClient(os.Getenv("TWITCH_OAUTH_TOKEN"))
		},
	}
}

func (h *SyncHandler) HandleSyncVODsTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Running VOD auto-sync...")

	streamers, err := db.ListStreamers()
	if err != nil {
		return err
	}

	client := h.newClient()
	if err := client.RefreshIntegrity(ctx); err != nil {
		log.Printf("Integrity refresh failed during auto-sync: %v", err)
	}

	threshold := time.Now().Add(-refreshWindow)
	totalQueued := 0

	for _, streamer := range streamers {
		log.Printf("Checking VODs for %s...", streamer.DisplayName)

		if user, err := client.FetchUser(ctx, streamer.Login); err != nil {
			log.Printf("Failed to re-sync profile for %s: %v", streamer.Login, err)
		} else if user != nil {
			var img *string
			if user.ProfileImageURL != "" {
				img = &user.ProfileImageURL
			}
			if _, err := db.UpsertStreamer(user.ID, user.Login, user.DisplayName, img); err != nil {
				log.Printf("Failed to update streamer %s: %v", user.Login, err)
			}
		}

		vods, err := client.FetchUserVideos(ctx, streamer.Login, vodFetchLimit)
		if err != nil {
			log.Printf("Failed to list VODs for %s: %v", streamer.Login, err)
			continue
		}

		queued := 0
		for _, vod := range vods {
			active, err := db.HasActiveScrapeTask(vod.ID)
			if err != nil {
				log.Printf("Failed to check tasks for video %s: %v", vod.ID, err)
				continue
			}
			if active {
				continue
			}

			recent := false
			if createdAt, err := time.Parse(time.RFC3339, vod.CreatedAt); err == nil && createdAt.After(threshold) {
				recent = true
			}

			exists, err := db.VideoExists(vod.ID)
			if err != nil {
				log.Printf("Failed to check video %s: %v", vod.ID, err)
				continue
			}
			if exists && !recent {
				continue
			}

			if err := db.DeleteInactiveScrapeTasks(vod.ID); err != nil {
				log.Printf("Failed to clear stale tasks for video %s: %v", vod.ID, err)
				continue
			}
			if _, err := db.CreateScrapeTask(vod.ID, streamer.ID); err != nil {
				log.Printf("Failed to queue video %s: %v", vod.ID, err)
				continue
			}
			queued++
			totalQueued++
		}

		log.Printf("Queued %d VODs for %s", queued, streamer.DisplayName)
		sleepCtx(ctx, time.Second)
	}

	log.Printf("VOD auto-sync complete, %d VODs queued", totalQueued)
	return nil
}
