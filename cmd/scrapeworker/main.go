package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"vodscraper/internal/db"
	"vodscraper/internal/mirror"
	"vodscraper/internal/scraper"
	"vodscraper/internal/twitch"
	"vodscraper/internal/worker"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := worker.NewScrapeWorker(func() worker.VideoScraper {
		return scraper.New(twitch.NewClient(os.Getenv("TWITCH_OAUTH_TOKEN")), mirror.NewFromEnv())
	})

	log.Printf("Scrape worker starting (commit: %s)", CommitSHA)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("worker stopped: %v", err)
	}
}
