package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/repository"
)

const jobQueueKey = "page-loader:queue"

// QueueRepoImpl stores JSON-encoded job requests in a Redis list.
type QueueRepoImpl struct {
	client *redis.Client
}

// NewQueueRepo creates a new instance of QueueRepoImpl.
func NewQueueRepo(client *redis.Client) *QueueRepoImpl {
	return &QueueRepoImpl{client: client}
}

// Push adds a job to the left side of the list.
func (r *QueueRepoImpl) Push(ctx context.Context, job *entity.JobRequest) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.client.LPush(ctx, jobQueueKey, payload).Err()
}

// Pop takes a job from the right side of the list without blocking.
func (r *QueueRepoImpl) Pop(ctx context.Context) (*entity.JobRequest, error) {
	payload, err := r.client.RPop(ctx, jobQueueKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrQueueEmpty
	}
	if err != nil {
		return nil, err
	}

	var job entity.JobRequest
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("decode queued job: %w", err)
	}
	return &job, nil
}

// Size returns the current number of items in the queue.
func (r *QueueRepoImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, jobQueueKey).Result()
}
