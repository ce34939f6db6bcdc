package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/repository"
)

type memVisited struct {
	mu   sync.Mutex
	urls map[string]time.Duration
	jobs map[string]string
}

func newMemVisited() *memVisited {
	return &memVisited{urls: make(map[string]time.Duration), jobs: make(map[string]string)}
}

func (m *memVisited) MarkVisited(_ context.Context, url, jobID string, expiry time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls[url] = expiry
	m.jobs[url] = jobID
	return nil
}

func (m *memVisited) LatestJobID(_ context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[url], nil
}

func (m *memVisited) IsVisited(_ context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.urls[url]
	return ok, nil
}

func (m *memVisited) RemoveVisited(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.urls, url)
	delete(m.jobs, url)
	return nil
}

type memQueue struct {
	mu   sync.Mutex
	jobs []*entity.JobRequest
}

func (q *memQueue) Push(_ context.Context, job *entity.JobRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *memQueue) Pop(_ context.Context) (*entity.JobRequest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil, repository.ErrQueueEmpty
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, nil
}

func (q *memQueue) Size(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.jobs)), nil
}

type memJobs struct {
	mu       sync.Mutex
	records  []*entity.JobRecord
	failures map[string][]entity.AssetFailure
}

func newMemJobs() *memJobs { return &memJobs{failures: make(map[string][]entity.AssetFailure)} }

func (m *memJobs) Save(_ context.Context, job *entity.JobRecord, failures []entity.AssetFailure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, job)
	m.failures[job.ID] = failures
	return nil
}

func (m *memJobs) FindLatestByURL(_ context.Context, url string) (*entity.JobRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].URL == url {
			return m.records[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

type stubLoader struct {
	mu     sync.Mutex
	result *entity.PageResult
	err    error
	calls  []string
}

func (s *stubLoader) DownloadPage(_ context.Context, url, outputDir string) (*entity.PageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, url+" -> "+outputDir)
	return s.result, s.err
}
