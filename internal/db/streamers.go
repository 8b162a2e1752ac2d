package db

import (
	"database/sql"
	"errors"
	"log"

	"vodscraper/internal/models"
)

// UpsertStreamer inserts a streamer or refreshes its profile fields. The id is
// the Twitch user ID, so re-syncing the same streamer is idempotent.
func UpsertStreamer(id, login, displayName string, profileImageURL *string) (*models.Streamer, error) {
	query := `
		INSERT INTO streamers (id, login, display_name, profile_image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			login = EXCLUDED.login,
			display_name = EXCLUDED.display_name,
			profile_image_url = EXCLUDED.profile_image_url
		RETURNING id, login, display_name, profile_image_url, created_at
	`
	streamer := &models.Streamer{}
	err := DB.Get(streamer, query, id, login, displayName, profileImageURL)
	if err != nil {
		log.Printf("Error upserting streamer %s: %v", login, err)
		return nil, err
	}
	return streamer, nil
}

// GetStreamerByLogin looks a streamer up case-insensitively. Twitch logins are
// not guaranteed unique-cased in our data. Returns nil when no streamer matches.
func GetStreamerByLogin(login string) (*models.Streamer, error) {
	streamer := &models.Streamer{}
	err := DB.Get(streamer, "SELECT * FROM streamers WHERE LOWER(login) = LOWER($1) LIMIT 1", login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return streamer, nil
}

func ListStreamers() ([]models.Streamer, error) {
	var streamers []models.Streamer
	err := DB.Select(&streamers, "SELECT * FROM streamers ORDER BY created_at")
	return streamers, err
}
