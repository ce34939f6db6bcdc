package entity

import "time"

// Job statuses as stored in page_jobs and reported by the API.
const (
	JobPending   = "pending"
	JobCompleted = "completed"
	JobFailed    = "failed"
	JobNotFound  = "not_found"
)

// JobRequest is the payload carried by the download queue.
type JobRequest struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	OutputDir string `json:"output_dir"`
}

// JobRecord mirrors the `page_jobs` PostgreSQL table schema.
type JobRecord struct {
	ID            string
	URL           string
	OutputDir     string
	Status        string
	PagePath      string
	AssetsTotal   int
	AssetsFailed  int
	FailureReason string
	DurationMS    int64
	FinishedAt    time.Time
}

// AssetFailure mirrors the `asset_failures` PostgreSQL table schema.
type AssetFailure struct {
	JobID       string
	URL         string
	Destination string
	Stage       Stage
	Reason      string
}

type JobStatus struct {
	URL           string
	CurrentStatus string
	PagePath      string
	AssetsTotal   int
	AssetsFailed  int
	FinishedAt    *time.Time
	FailureReason string
}
