package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrPageRecentlyLoaded = errors.New("page has been submitted recently and force is false")
)

// JobManager defines the interface for submitting pages and checking their status.
type JobManager interface {
	Submit(ctx context.Context, url, outputDir string, force bool) (string, error)
	GetStatus(ctx context.Context, url string) (*entity.JobStatus, error)
}

type jobManagerUseCase struct {
	visitedRepo      repository.VisitedRepository
	queueRepo        repository.QueueRepository
	jobRepo          repository.JobRepository
	deduplicationTTL time.Duration
	defaultOutputDir string
	logger           *zap.Logger
}

// NewJobManager creates a new JobManager use case. Jobs submitted without an
// output directory are saved to defaultOutputDir.
func NewJobManager(
	visitedRepo repository.VisitedRepository,
	queueRepo repository.QueueRepository,
	jobRepo repository.JobRepository,
	deduplicationTTL time.Duration,
	defaultOutputDir string,
	logger *zap.Logger,
) JobManager {
	return &jobManagerUseCase{
		visitedRepo:      visitedRepo,
		queueRepo:        queueRepo,
		jobRepo:          jobRepo,
		deduplicationTTL: deduplicationTTL,
		defaultOutputDir: defaultOutputDir,
		logger:           logger,
	}
}

func (uc *jobManagerUseCase) Submit(ctx context.Context, url, outputDir string, force bool) (string, error) {
	if force {
		if err := uc.visitedRepo.RemoveVisited(ctx, url); err != nil {
			uc.logger.Warn("failed to remove visited key for forced download", zap.String("url", url), zap.Error(err))
		}
	} else {
		isVisited, err := uc.visitedRepo.IsVisited(ctx, url)
		if err != nil {
			return "", err
		}
		if isVisited {
			return "", ErrPageRecentlyLoaded
		}
	}

	if outputDir == "" {
		outputDir = uc.defaultOutputDir
	}
	job := &entity.JobRequest{
		ID:        uuid.NewString(),
		URL:       url,
		OutputDir: outputDir,
	}
	if err := uc.queueRepo.Push(ctx, job); err != nil {
		return "", err
	}

	if err := uc.visitedRepo.MarkVisited(ctx, url, job.ID, uc.deduplicationTTL); err != nil {
		// The job is queued; at worst a duplicate submission slips through.
		uc.logger.Error("failed to mark URL as visited after queueing", zap.String("url", url), zap.Error(err))
	}

	return job.ID, nil
}

// GetStatus reports the job most recently submitted for url. A finished
// record that belongs to an older job does not hide a newer queued one.
func (uc *jobManagerUseCase) GetStatus(ctx context.Context, url string) (*entity.JobStatus, error) {
	latestID, err := uc.visitedRepo.LatestJobID(ctx, url)
	if err != nil {
		return nil, err
	}
	record, err := uc.jobRepo.FindLatestByURL(ctx, url)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err == nil && (latestID == "" || latestID == record.ID) {
		finishedAt := record.FinishedAt
		return &entity.JobStatus{
			URL:           url,
			CurrentStatus: record.Status,
			PagePath:      record.PagePath,
			AssetsTotal:   record.AssetsTotal,
			AssetsFailed:  record.AssetsFailed,
			FinishedAt:    &finishedAt,
			FailureReason: record.FailureReason,
		}, nil
	}
	if latestID != "" {
		return &entity.JobStatus{URL: url, CurrentStatus: entity.JobPending}, nil
	}
	return &entity.JobStatus{URL: url, CurrentStatus: entity.JobNotFound}, nil
}
