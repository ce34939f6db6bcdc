package repository

import (
	"context"

	"github.com/user/page-loader/internal/entity"
)

// JobRepository defines the interface for storing the history of page downloads.
type JobRepository interface {
	// Save stores the job record together with its failed assets. A record
	// with the same ID is replaced.
	Save(ctx context.Context, job *entity.JobRecord, failures []entity.AssetFailure) error
	// FindLatestByURL retrieves the most recent record for a page URL.
	// It returns ErrNotFound when the URL was never processed.
	FindLatestByURL(ctx context.Context, url string) (*entity.JobRecord, error)
}
