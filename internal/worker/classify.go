package worker

import (
	"context"
	"log"

	"vodscraper/internal/db"
	"vodscraper/internal/models"
)

// CommentClassifier is implemented by classifier.Service. The classifier is
// long-lived (one scorer connection for the worker's lifetime), unlike the
// per-task scraping sessions.
type CommentClassifier interface {
	ClassifyVideo(ctx context.Context, videoID string, task *models.ClassificationTask) error
}

type ClassifyWorker struct {
	classifier CommentClassifier
}

func NewClassifyWorker(classifier CommentClassifier) *ClassifyWorker {
	return &ClassifyWorker{classifier: classifier}
}

func (w *ClassifyWorker) Run(ctx context.Context) error {
	log.Println("Classification worker started")
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		worked, err := w.processOne(ctx)
		if err != nil {
			log.Printf("Classification worker poll error: %v", err)
		}

		pause := taskPause
		if !worked {
			pause = pollInterval
		}
		if !sleepCtx(ctx, pause) {
			return ctx.Err()
		}
	}
}

func (w *ClassifyWorker) processOne(ctx context.Context) (bool, error) {
	task, err := db.NextPendingClassificationTask()
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}

	claimed, err := db.ClaimClassificationTask(task.ID)
	if err != nil {
		return false, err
	}
	if !claimed {
		return true, nil
	}

	log.Printf("Processing classification task %s (video %s)", task.ID, task.VideoID)

	if err := w.classifier.ClassifyVideo(ctx, task.VideoID, task); err != nil {
		log.Printf("Classification task %s failed: %v", task.ID, err)
		if ferr := db.FailClassificationTask(task.ID, err.Error()); ferr != nil {
			log.Printf("Failed to mark task %s failed: %v", task.ID, ferr)
		}
		return true, nil
	}

	if err := db.CompleteClassificationTask(task.ID); err != nil {
		log.Printf("Failed to mark task %s completed: %v", task.ID, err)
	}
	log.Printf("Completed classification task %s (video %s)", task.ID, task.VideoID)
	return true, nil
}
