package response

import "time"

type SubmitDownloadResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// JobStatusResponse is a DTO for job status, mirroring entity.JobStatus
type JobStatusResponse struct {
	URL           string     `json:"url"`
	CurrentStatus string     `json:"current_status"` // "pending", "completed", "failed"
	PagePath      string     `json:"page_path,omitempty"`
	AssetsTotal   int        `json:"assets_total"`
	AssetsFailed  int        `json:"assets_failed"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}
