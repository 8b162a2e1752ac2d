package worker

import (
	"context"
	"log"

	"vodscraper/internal/db"
	"vodscraper/internal/scraper"
)

// VideoScraper is one scraping session. Implemented by scraper.Service; mocked
// in tests.
type VideoScraper interface {
	ScrapeVideo(ctx context.Context, videoID string, limitPages int, onProgress func(scraper.Progress)) error
}

// ScrapeWorker drives ScrapeTasks. A fresh scraping session is created per
// task and discarded afterwards, so attestation state never leaks between
// tasks.
type ScrapeWorker struct {
	newSession func() VideoScraper
}

func NewScrapeWorker(newSession func() VideoScraper) *ScrapeWorker {
	return &ScrapeWorker{newSession: newSession}
}

// Run polls until the context ends.
func (w *ScrapeWorker) Run(ctx context.Context) error {
	log.Println("Scrape worker started")
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		worked, err := w.processOne(ctx)
		if err != nil {
			log.Printf("Scrape worker poll error: %v", err)
		}

		pause := taskPause
		if !worked {
			pause = pollInterval
		}
		if !sleepCtx(ctx, pause) {
			return ctx.Err()
		}
	}
}

// processOne claims and runs a single task. It reports whether there was a
// task to work on; queue-level errors are returned, engine errors end up on
// the task row instead.
func (w *ScrapeWorker) processOne(ctx context.Context) (bool, error) {
	task, err := db.NextPendingScrapeTask()
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}

	claimed, err := db.ClaimScrapeTask(task.ID)
	if err != nil {
		return false, err
	}
	if !claimed {
		// Someone else took it between the poll and the claim.
		return true, nil
	}

	log.Printf("Processing scrape task %s (video %s)", task.ID, task.VideoID)

	lastPercent := task.ProgressPercent
	onProgress := func(p scraper.Progress) {
		// Write only strict increases: keeps the column monotonic and
		// skips redundant updates.
		if p.Percent <= lastPercent {
			return
		}
		lastPercent = p.Percent
		if err := db.UpdateScrapeTaskProgress(task.ID, p.Percent); err != nil {
			log.Printf("Failed to checkpoint progress for task %s: %v", task.ID, err)
		}
	}

	session := w.newSession()
	if err := session.ScrapeVideo(ctx, task.VideoID, 0, onProgress); err != nil {
		log.Printf("Scrape task %s failed: %v", task.ID, err)
		if ferr := db.FailScrapeTask(task.ID, err.Error()); ferr != nil {
			log.Printf("Failed to mark task %s failed: %v", task.ID, ferr)
		}
		return true, nil
	}

	if err := db.CompleteScrapeTask(task.ID); err != nil {
		log.Printf("Failed to mark task %s completed: %v", task.ID, err)
	}
	log.Printf("Completed scrape task %s (video %s)", task.ID, task.VideoID)
	return true, nil
}
