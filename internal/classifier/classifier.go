// Package classifier scores ingested comments for toxicity in checkpointed
// batches. The scorer itself is an external collaborator behind the Scorer
// interface; this package owns batching, progress checkpoints and the
// label-to-boolean mapping.
package classifier

import (
	"context"
	"fmt"
	"log"
	"strings"

	"vodscraper/internal/db"
	"vodscraper/internal/models"
)

const batchSize = 100

type Service struct {
	scorer Scorer
}

func New(scorer Scorer) *Service {
	return &Service{scorer: scorer}
}

// ClassifyVideo scores every unscored comment of a video. task may be nil; when
// set, progress_percent is checkpointed after each batch. A scoring error
// aborts the remaining batches and propagates; batches already written keep
// their scores.
func (s *Service) ClassifyVideo(ctx context.Context, videoID string, task *models.ClassificationTask) error {
	log.Printf("Starting classification for video %s", videoID)

	total, err := db.CountUnscoredComments(videoID)
	if err != nil {
		return fmt.Errorf("failed to count unscored comments: %w", err)
	}
	if total == 0 {
		log.Printf("No unscored comments for video %s", videoID)
		if task != nil {
			if err := db.CompleteClassificationTask(task.ID); err != nil {
				return err
			}
		}
		return nil
	}

	processed := 0
	for processed < total {
		batch, err := db.GetUnscoredComments(videoID, batchSize)
		if err != nil {
			return fmt.Errorf("failed to fetch unscored comments: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Message
		}

		results, err := s.scorer.Score(ctx, texts)
		if err != nil {
			return fmt.Errorf("scoring failed for video %s: %w", videoID, err)
		}

		scores := make([]models.CommentScore, 0, len(batch))
		for i, c := range batch {
			if i >= len(results) {
				break
			}
			scores = append(scores, models.CommentScore{
				CommentID: c.ID,
				IsToxic:   IsToxicLabel(results[i].Label),
				Score:     results[i].Score,
			})
		}
		if err := db.UpdateCommentScores(scores); err != nil {
			return err
		}

		processed += len(batch)
		if task != nil {
			pct := processed * 100 / total
			if err := db.UpdateClassificationTaskProgress(task.ID, pct); err != nil {
				return err
			}
			task.ProgressPercent = pct
		}
		log.Printf("Classified %d/%d comments for video %s", processed, total, videoID)
	}

	log.Printf("Finished classification for video %s", videoID)
	return nil
}

// IsToxicLabel maps a scorer label to the offensive class. Substring matching
// tolerates label variants across model revisions ("LABEL_1", "offensive",
// "Offensive speech", ...).
func IsToxicLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "label_1") || strings.Contains(l, "offensive")
}
