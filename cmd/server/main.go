package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"vodscraper/internal/db"
	"vodscraper/internal/handlers"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer client.Close()

	h := handlers.New(client)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/videos/{id}/scrape", h.ScrapeVideo).Methods(http.MethodPost)
	r.HandleFunc("/api/videos/{id}/scrape-stream", h.ScrapeStream).Methods(http.MethodGet)
	r.HandleFunc("/api/videos/{id}/classify", h.CreateClassificationTask).Methods(http.MethodPost)
	r.HandleFunc("/api/sync", h.TriggerSync).Methods(http.MethodPost)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
