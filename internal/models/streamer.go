package models

import "time"

// Streamer is a tracked Twitch channel. The id is the Twitch user ID.
type Streamer struct {
	ID              string    `db:"id"`
	Login           string    `db:"login"`
	DisplayName     string    `db:"display_name"`
	ProfileImageURL *string   `db:"profile_image_url"`
	CreatedAt       time.Time `db:"created_at"`
}
