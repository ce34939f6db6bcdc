package repository

import (
	"context"

	"github.com/user/page-loader/internal/entity"
)

// QueueRepository defines the interface for a FIFO queue of page download jobs.
type QueueRepository interface {
	// Push adds a job to the end of the queue.
	Push(ctx context.Context, job *entity.JobRequest) error
	// Pop removes and returns a job from the front of the queue.
	// It returns ErrQueueEmpty when there is nothing to process.
	Pop(ctx context.Context) (*entity.JobRequest, error)
	// Size returns the current number of items in the queue.
	Size(ctx context.Context) (int64, error)
}
