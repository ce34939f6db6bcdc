package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/repository"
	"github.com/user/page-loader/pkg/metrics"
	"go.uber.org/zap"
)

// PageLoader downloads a single page with its assets.
type PageLoader interface {
	DownloadPage(ctx context.Context, url, outputDir string) (*entity.PageResult, error)
}

// PageProcessor defines the interface for the queued page download process.
type PageProcessor interface {
	ProcessJobFromQueue(ctx context.Context) error
}

type pageProcessorUseCase struct {
	queueRepo repository.QueueRepository
	jobRepo   repository.JobRepository
	loader    PageLoader
	logger    *zap.Logger
	now       func() time.Time
}

// NewPageProcessor creates a new instance of the page processor use case.
func NewPageProcessor(
	queueRepo repository.QueueRepository,
	jobRepo repository.JobRepository,
	loader PageLoader,
	logger *zap.Logger,
) PageProcessor {
	return &pageProcessorUseCase{
		queueRepo: queueRepo,
		jobRepo:   jobRepo,
		loader:    loader,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessJobFromQueue takes one job from the queue, downloads the page and
// records the outcome. It returns repository.ErrQueueEmpty when idle. A
// failed download is recorded, not returned.
func (uc *pageProcessorUseCase) ProcessJobFromQueue(ctx context.Context) error {
	job, err := uc.queueRepo.Pop(ctx)
	if err != nil {
		return err
	}
	if size, err := uc.queueRepo.Size(ctx); err == nil {
		metrics.JobsInQueue.Set(float64(size))
	}

	log := uc.logger.With(zap.String("job_id", job.ID), zap.String("url", job.URL))
	log.Info("processing job from queue")

	start := uc.now()
	result, loadErr := uc.loader.DownloadPage(ctx, job.URL, job.OutputDir)

	record := &entity.JobRecord{
		ID:         job.ID,
		URL:        job.URL,
		OutputDir:  job.OutputDir,
		DurationMS: uc.now().Sub(start).Milliseconds(),
		FinishedAt: uc.now(),
	}
	var failures []entity.AssetFailure

	if loadErr != nil {
		log.Error("page download failed", zap.Error(loadErr))
		record.Status = entity.JobFailed
		record.FailureReason = loadErr.Error()
	} else {
		record.Status = entity.JobCompleted
		record.PagePath = result.PagePath
		record.AssetsTotal = len(result.Assets)
		for _, a := range result.Failed() {
			failures = append(failures, entity.AssetFailure{
				JobID:       job.ID,
				URL:         a.Task.URL,
				Destination: a.Task.Destination,
				Stage:       a.Stage,
				Reason:      a.Err.Error(),
			})
		}
		record.AssetsFailed = len(failures)
		log.Info("page download completed",
			zap.String("path", result.PagePath),
			zap.Int("assets_failed", record.AssetsFailed),
		)
	}

	if err := uc.jobRepo.Save(ctx, record, failures); err != nil {
		return fmt.Errorf("failed to save job record for %s: %w", job.URL, err)
	}
	return nil
}
