package models

import "time"

// Comment is one chat entry on a VOD. Toxicity fields stay null until the
// classification worker scores the comment.
type Comment struct {
	ID                   string     `db:"id"`
	VideoID              string     `db:"video_id"`
	CommenterLogin       string     `db:"commenter_login"`
	CommenterDisplayName string     `db:"commenter_display_name"`
	ContentOffsetSeconds int        `db:"content_offset_seconds"`
	Message              string     `db:"message"`
	CreatedAt            *time.Time `db:"created_at"`
	IsToxic              *bool      `db:"is_toxic"`
	ToxicityScore        *float64   `db:"toxicity_score"`
}

// CommentScore is one classifier verdict waiting to be written back.
type CommentScore struct {
	CommentID string
	IsToxic   bool
	Score     float64
}
