package db

import (
	"vodscraper/internal/models"
)

// UpsertVideo writes a video row keyed by the upstream video id. Re-scraping a
// video overwrites the metadata with the latest API response.
func UpsertVideo(v models.Video) error {
	query := `
		INSERT INTO videos (id, title, streamer_id, streamer_login, streamer_display_name, length_seconds, created_at, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			streamer_id = EXCLUDED.streamer_id,
			streamer_login = EXCLUDED.streamer_login,
			streamer_display_name = EXCLUDED.streamer_display_name,
			length_seconds = EXCLUDED.length_seconds,
			created_at = EXCLUDED.created_at,
			thumbnail_url = EXCLUDED.thumbnail_url
	`
	_, err := DB.Exec(query, v.ID, v.Title, v.StreamerID, v.StreamerLogin, v.StreamerDisplayName, v.LengthSeconds, v.CreatedAt, v.ThumbnailURL)
	return err
}

func VideoExists(id string) (bool, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM videos WHERE id = $1", id)
	return count > 0, err
}
