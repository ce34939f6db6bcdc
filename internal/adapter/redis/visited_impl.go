package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/page-loader/pkg/utils"
)

const visitedURLPrefix = "page-loader:visited:"

// VisitedRepoImpl provides a concrete implementation for the VisitedRepository interface using Redis.
type VisitedRepoImpl struct {
	client *redis.Client
}

// NewVisitedRepo creates a new instance of VisitedRepoImpl.
func NewVisitedRepo(client *redis.Client) *VisitedRepoImpl {
	return &VisitedRepoImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
func (r *VisitedRepoImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", visitedURLPrefix, utils.HashURL(url))
}

// MarkVisited sets the URL's key to the submitted job ID with an expiry.
func (r *VisitedRepoImpl) MarkVisited(ctx context.Context, url, jobID string, expiry time.Duration) error {
	return r.client.SetEx(ctx, r.generateKey(url), jobID, expiry).Err()
}

func (r *VisitedRepoImpl) LatestJobID(ctx context.Context, url string) (string, error) {
	id, err := r.client.Get(ctx, r.generateKey(url)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return id, err
}

func (r *VisitedRepoImpl) IsVisited(ctx context.Context, url string) (bool, error) {
	val, err := r.client.Exists(ctx, r.generateKey(url)).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}

func (r *VisitedRepoImpl) RemoveVisited(ctx context.Context, url string) error {
	return r.client.Del(ctx, r.generateKey(url)).Err()
}
