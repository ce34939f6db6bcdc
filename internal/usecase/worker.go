package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/user/page-loader/internal/repository"
	"go.uber.org/zap"
)

// RunWorkers runs n workers draining the queue through p until ctx is done.
// Workers sleep for idle whenever the queue is empty or processing fails.
func RunWorkers(ctx context.Context, p PageProcessor, n int, idle time.Duration, logger *zap.Logger) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(ctx, p, idle, logger.With(zap.Int("worker_id", id)))
		}(i)
	}
	wg.Wait()
}

func worker(ctx context.Context, p PageProcessor, idle time.Duration, logger *zap.Logger) {
	for {
		if ctx.Err() != nil {
			return
		}
		err := p.ProcessJobFromQueue(ctx)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrQueueEmpty) {
			logger.Error("failed to process job", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(idle):
		}
	}
}
