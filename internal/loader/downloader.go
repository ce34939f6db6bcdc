package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/repository"
	"github.com/user/page-loader/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Downloader fetches assets concurrently and writes each one to its own
// destination. A failing task never cancels its siblings.
type Downloader struct {
	fetcher repository.FetcherRepository
	logger  *zap.Logger
	limit   int
}

// NewDownloader creates a Downloader. A limit of zero or less leaves the
// number of concurrent tasks unbounded.
func NewDownloader(fetcher repository.FetcherRepository, logger *zap.Logger, limit int) *Downloader {
	return &Downloader{fetcher: fetcher, logger: logger, limit: limit}
}

// Download runs every task and waits for all of them to settle. The result
// at index i belongs to tasks[i].
func (d *Downloader) Download(ctx context.Context, tasks []entity.DownloadTask) []entity.AssetResult {
	results := make([]entity.AssetResult, len(tasks))

	var g errgroup.Group
	if d.limit > 0 {
		g.SetLimit(d.limit)
	}
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = d.downloadOne(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (d *Downloader) downloadOne(ctx context.Context, task entity.DownloadTask) entity.AssetResult {
	result := entity.AssetResult{Task: task, Stage: entity.StageFetch}

	res, err := d.fetcher.Fetch(ctx, task.URL)
	if err != nil {
		result.Err = err
		d.report(result)
		return result
	}

	result.Stage = entity.StageWrite
	if err := os.WriteFile(task.Destination, res.Body, 0o644); err != nil {
		result.Err = fmt.Errorf("write asset: %w", err)
		d.report(result)
		return result
	}

	result.Bytes = len(res.Body)
	d.report(result)
	return result
}

func (d *Downloader) report(r entity.AssetResult) {
	if r.Err != nil {
		metrics.AssetsTotal.WithLabelValues("failure", string(r.Stage)).Inc()
		d.logger.Warn("asset download failed",
			zap.String("asset_url", r.Task.URL),
			zap.String("stage", string(r.Stage)),
			zap.Error(r.Err),
		)
		return
	}
	metrics.AssetsTotal.WithLabelValues("success", "").Inc()
	metrics.AssetBytesTotal.Add(float64(r.Bytes))
	d.logger.Debug("asset saved",
		zap.String("asset_url", r.Task.URL),
		zap.String("path", r.Task.Destination),
		zap.Int("bytes", r.Bytes),
	)
}
