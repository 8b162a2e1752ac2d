package classifier

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"vodscraper/internal/models"
	"vodscraper/internal/test"
)

// stubScorer labels the text "bad" as offensive and everything else as clean.
type stubScorer struct {
	calls [][]string
	err   error
}

func (s *stubScorer) Score(ctx context.Context, texts []string) ([]Result, error) {
	s.calls = append(s.calls, texts)
	if s.err != nil {
		return nil, s.err
	}
	results := make([]Result, len(texts))
	for i, text := range texts {
		if text == "bad" {
			results[i] = Result{Label: "LABEL_1", Score: 0.97}
		} else {
			results[i] = Result{Label: "LABEL_0", Score: 0.88}
		}
	}
	return results, nil
}

func commentRows(start, n int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "video_id", "commenter_login", "commenter_display_name", "content_offset_seconds", "message"})
	for i := start; i < start+n; i++ {
		rows.AddRow(fmt.Sprintf("c%d", i), "v1", "user", "User", i, "some message")
	}
	return rows
}

func expectScoredBatch(mock sqlmock.Sqlmock, n int) {
	mock.ExpectBegin()
	for i := 0; i < n; i++ {
		mock.ExpectExec(`UPDATE comments SET is_toxic = \$1, toxicity_score = \$2 WHERE id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()
}

func TestClassifyVideoBatches(t *testing.T) {
	_, mock := test.NewMockDB(t)

	task := &models.ClassificationTask{ID: "task-1", VideoID: "v1", Status: "InProgress"}
	scorer := &stubScorer{}
	service := New(scorer)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comments WHERE video_id = \$1 AND toxicity_score IS NULL`).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(250))

	// 250 unscored comments in batches of 100 checkpoint at 40%, 80%, 100%.
	batches := []struct {
		start, n, pct int
	}{
		{0, 100, 40},
		{100, 100, 80},
		{200, 50, 100},
	}
	for _, b := range batches {
		mock.ExpectQuery(`SELECT \* FROM comments\s+WHERE video_id = \$1 AND toxicity_score IS NULL`).
			WithArgs("v1", 100).
			WillReturnRows(commentRows(b.start, b.n))
		expectScoredBatch(mock, b.n)
		mock.ExpectExec(`UPDATE classification_tasks SET progress_percent = \$1`).
			WithArgs(b.pct, "task-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	err := service.ClassifyVideo(context.Background(), "v1", task)
	assert.NoError(t, err)
	assert.Len(t, scorer.calls, 3)
	assert.Len(t, scorer.calls[0], 100)
	assert.Len(t, scorer.calls[2], 50)
	assert.Equal(t, 100, task.ProgressPercent)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestClassifyVideoNoUnscoredComments(t *testing.T) {
	_, mock := test.NewMockDB(t)

	task := &models.ClassificationTask{ID: "task-1", VideoID: "v1"}
	scorer := &stubScorer{}
	service := New(scorer)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comments`).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE classification_tasks SET status = 'Completed', progress_percent = 100`).
		WithArgs("task-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := service.ClassifyVideo(context.Background(), "v1", task)
	assert.NoError(t, err)
	assert.Empty(t, scorer.calls)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestClassifyVideoScoringErrorAborts(t *testing.T) {
	_, mock := test.NewMockDB(t)

	scorer := &stubScorer{err: errors.New("model unavailable")}
	service := New(scorer)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comments`).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(`SELECT \* FROM comments`).
		WithArgs("v1", 100).
		WillReturnRows(commentRows(0, 10))

	err := service.ClassifyVideo(context.Background(), "v1", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestIsToxicLabel(t *testing.T) {
	assert.True(t, IsToxicLabel("LABEL_1"))
	assert.True(t, IsToxicLabel("offensive"))
	assert.True(t, IsToxicLabel("Offensive speech"))
	assert.False(t, IsToxicLabel("LABEL_0"))
	assert.False(t, IsToxicLabel("neutral"))
}
