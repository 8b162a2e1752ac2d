package models

import "time"

// ScrapeTask is a unit of ingestion work for one VOD.
type ScrapeTask struct {
	ID              string    `db:"id"`
	VideoID         string    `db:"video_id"`
	StreamerID      string    `db:"streamer_id"`
	Status          string    `db:"status"`
	ProgressPercent int       `db:"progress_percent"`
	ErrorMessage    *string   `db:"error_message"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ClassificationTask is a unit of toxicity-scoring work for one VOD's comments.
type ClassificationTask struct {
	ID              string    `db:"id"`
	VideoID         string    `db:"video_id"`
	Status          string    `db:"status"`
	ProgressPercent int       `db:"progress_percent"`
	ErrorMessage    *string   `db:"error_message"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
