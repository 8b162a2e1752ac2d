package tasks

import (
	"github.com/hibiken/asynq"
)

const (
	// TypeSyncVODs checks every tracked streamer for new VODs and queues
	// scrape tasks for them.
	TypeSyncVODs = "vods:sync"
)

func NewSyncVODsTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeSyncVODs, nil), nil
}
