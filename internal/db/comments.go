package db

import (
	"fmt"

	"vodscraper/internal/models"
)

// InsertComments writes one page's comment batch inside a single transaction.
// Rows whose id already exists are skipped (ON CONFLICT DO NOTHING), so
// re-scraping a video never duplicates comments. Returns the number of rows
// handed to the insert, not the number actually written.
func InsertComments(comments []models.Comment) (int, error) {
	if len(comments) == 0 {
		return 0, nil
	}

	tx, err := DB.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin comment batch: %w", err)
	}

	query := `
		INSERT INTO comments (id, video_id, commenter_login, commenter_display_name, content_offset_seconds, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	for _, c := range comments {
		if _, err := tx.Exec(query, c.ID, c.VideoID, c.CommenterLogin, c.CommenterDisplayName, c.ContentOffsetSeconds, c.Message, c.CreatedAt); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert comment %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit comment batch: %w", err)
	}
	return len(comments), nil
}

func CountUnscoredComments(videoID string) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM comments WHERE video_id = $1 AND toxicity_score IS NULL", videoID)
	return count, err
}

// GetUnscoredComments returns the next batch of comments without a toxicity
// score, in stream order. Scoring a batch removes it from this result set, so
// callers just call again for the next batch.
func GetUnscoredComments(videoID string, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	query := `
		SELECT * FROM comments
		WHERE video_id = $1 AND toxicity_score IS NULL
		ORDER BY content_offset_seconds, id
		LIMIT $2
	`
	err := DB.Select(&comments, query, videoID, limit)
	return comments, err
}

// UpdateCommentScores persists one batch of classifier results atomically.
func UpdateCommentScores(scores []models.CommentScore) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin score batch: %w", err)
	}

	for _, s := range scores {
		if _, err := tx.Exec("UPDATE comments SET is_toxic = $1, toxicity_score = $2 WHERE id = $3", s.IsToxic, s.Score, s.CommentID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update score for comment %s: %w", s.CommentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit score batch: %w", err)
	}
	return nil
}
