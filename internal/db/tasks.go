package db

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"vodscraper/internal/models"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "InProgress"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

func CreateScrapeTask(videoID, streamerID string) (*models.ScrapeTask, error) {
	task := &models.ScrapeTask{}
	query := `
		INSERT INTO scrape_tasks (id, video_id, streamer_id, status)
		VALUES ($1, $2, $3, 'Pending')
		RETURNING *
	`
	err := DB.Get(task, query, uuid.NewString(), videoID, streamerID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// NextPendingScrapeTask returns the oldest pending task, or nil when the queue
// is empty.
func NextPendingScrapeTask() (*models.ScrapeTask, error) {
	task := &models.ScrapeTask{}
	err := DB.Get(task, "SELECT * FROM scrape_tasks WHERE status = 'Pending' ORDER BY created_at LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ClaimScrapeTask flips a task from Pending to InProgress. The status check in
// the WHERE clause makes the claim atomic: if another worker got there first the
// update affects zero rows and the claim is reported as lost.
func ClaimScrapeTask(id string) (bool, error) {
	res, err := DB.Exec("UPDATE scrape_tasks SET status = 'InProgress', updated_at = NOW() WHERE id = $1 AND status = 'Pending'", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func UpdateScrapeTaskProgress(id string, percent int) error {
	_, err := DB.Exec("UPDATE scrape_tasks SET progress_percent = $1, updated_at = NOW() WHERE id = $2", percent, id)
	return err
}

func CompleteScrapeTask(id string) error {
	_, err := DB.Exec("UPDATE scrape_tasks SET status = 'Completed', progress_percent = 100, updated_at = NOW() WHERE id = $1", id)
	return err
}

func FailScrapeTask(id, message string) error {
	_, err := DB.Exec("UPDATE scrape_tasks SET status = 'Failed', error_message = $1, updated_at = NOW() WHERE id = $2", message, id)
	return err
}

func HasActiveScrapeTask(videoID string) (bool, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM scrape_tasks WHERE video_id = $1 AND status IN ('Pending', 'InProgress')", videoID)
	return count > 0, err
}

func HasCompletedScrapeTask(videoID string) (bool, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM scrape_tasks WHERE video_id = $1 AND status = 'Completed'", videoID)
	return count > 0, err
}

// DeleteInactiveScrapeTasks clears completed/failed tasks for a video so it can
// be re-queued. Pending and in-progress tasks are left alone.
func DeleteInactiveScrapeTasks(videoID string) error {
	_, err := DB.Exec("DELETE FROM scrape_tasks WHERE video_id = $1 AND status NOT IN ('Pending', 'InProgress')", videoID)
	return err
}

func CreateClassificationTask(videoID string) (*models.ClassificationTask, error) {
	task := &models.ClassificationTask{}
	query := `
		INSERT INTO classification_tasks (id, video_id, status)
		VALUES ($1, $2, 'Pending')
		RETURNING *
	`
	err := DB.Get(task, query, uuid.NewString(), videoID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func NextPendingClassificationTask() (*models.ClassificationTask, error) {
	task := &models.ClassificationTask{}
	err := DB.Get(task, "SELECT * FROM classification_tasks WHERE status = 'Pending' ORDER BY created_at LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func ClaimClassificationTask(id string) (bool, error) {
	res, err := DB.Exec("UPDATE classification_tasks SET status = 'InProgress', updated_at = NOW() WHERE id = $1 AND status = 'Pending'", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func UpdateClassificationTaskProgress(id string, percent int) error {
	_, err := DB.Exec("UPDATE classification_tasks SET progress_percent = $1, updated_at = NOW() WHERE id = $2", percent, id)
	return err
}

func CompleteClassificationTask(id string) error {
	_, err := DB.Exec("UPDATE classification_tasks SET status = 'Completed', progress_percent = 100, updated_at = NOW() WHERE id = $1", id)
	return err
}

func FailClassificationTask(id, message string) error {
	_, err := DB.Exec("UPDATE classification_tasks SET status = 'Failed', error_message = $1, updated_at = NOW() WHERE id = $2", message, id)
	return err
}

func HasActiveClassificationTask(videoID string) (bool, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM classification_tasks WHERE video_id = $1 AND status IN ('Pending', 'InProgress')", videoID)
	return count > 0, err
}
