// Package worker contains the long-lived loops that drive ingestion and
// classification tasks, plus the asynq handler for the periodic VOD auto-sync.
//
// Each loop polls its own task table for the oldest Pending row, claims it
// atomically, runs the matching engine, and checkpoints status and progress
// back onto the row. The design assumes one loop per task type; the atomic
// claim merely keeps an accidental second instance from double-processing.
package worker

import (
	"context"
	"time"
)

const (
	// How long to sleep when the queue is empty.
	pollInterval = 5 * time.Second
	// Pause after every task, success or failure, to avoid hammering the
	// database and the upstream API.
	taskPause = 1 * time.Second
)

// sleepCtx waits for d and reports false if the context ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
