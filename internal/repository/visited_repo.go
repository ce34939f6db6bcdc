package repository

import (
	"context"
	"time"
)

// VisitedRepository defines the interface for deduplication of submitted page URLs.
type VisitedRepository interface {
	// MarkVisited records jobID as the latest job submitted for url, with a specific expiry time.
	MarkVisited(ctx context.Context, url, jobID string, expiry time.Duration) error
	// IsVisited checks if a URL has been submitted recently.
	IsVisited(ctx context.Context, url string) (bool, error)
	// LatestJobID returns the job recorded by MarkVisited, or "" once it has expired.
	LatestJobID(ctx context.Context, url string) (string, error)
	// RemoveVisited removes a URL from the visited set, used for forced downloads.
	RemoveVisited(ctx context.Context, url string) error
}
