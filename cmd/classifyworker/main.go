package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"vodscraper/internal/classifier"
	"vodscraper/internal/db"
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

	scorerURL := os.Getenv("TOXICITY_API_URL")
	if scorerURL == "" {
		log.Fatal("TOXICITY_API_URL is not set")
	}
	scorer := classifier.NewInferenceClient(scorerURL, os.Getenv("TOXICITY_API_TOKEN"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := worker.NewClassifyWorker(classifier.New(scorer))

	log.Printf("Classification worker starting (commit: %s)", CommitSHA)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("worker stopped: %v", err)
	}
}
