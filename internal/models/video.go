package models

import "time"

// Video is one archived broadcast (VOD). StreamerID is nullable because a video
// can be scraped before its streamer is registered locally; the login and display
// name are denormalized from the API response either way.
type Video struct {
	ID                  string     `db:"id"`
	Title               *string    `db:"title"`
	StreamerID          *string    `db:"streamer_id"`
	StreamerLogin       *string    `db:"streamer_login"`
	StreamerDisplayName *string    `db:"streamer_display_name"`
	LengthSeconds       *int       `db:"length_seconds"`
	CreatedAt           *time.Time `db:"created_at"`
	ThumbnailURL        *string    `db:"thumbnail_url"`
}
