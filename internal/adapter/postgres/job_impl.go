package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/repository"
)

// Schema creates the tables used by JobRepoImpl.
const Schema = `
CREATE TABLE IF NOT EXISTS page_jobs (
	id             TEXT PRIMARY KEY,
	url            TEXT NOT NULL,
	output_dir     TEXT NOT NULL,
	status         TEXT NOT NULL,
	page_path      TEXT NOT NULL DEFAULT '',
	assets_total   INTEGER NOT NULL DEFAULT 0,
	assets_failed  INTEGER NOT NULL DEFAULT 0,
	failure_reason TEXT NOT NULL DEFAULT '',
	duration_ms    BIGINT NOT NULL DEFAULT 0,
	finished_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS page_jobs_url_finished_at ON page_jobs (url, finished_at DESC);

CREATE TABLE IF NOT EXISTS asset_failures (
	job_id      TEXT NOT NULL REFERENCES page_jobs (id) ON DELETE CASCADE,
	url         TEXT NOT NULL,
	destination TEXT NOT NULL,
	stage       TEXT NOT NULL,
	reason      TEXT NOT NULL,
	PRIMARY KEY (job_id, url)
);
`

// JobRepoImpl provides a concrete implementation for the JobRepository interface using PostgreSQL.
type JobRepoImpl struct {
	db *pgxpool.Pool
}

// NewJobRepo creates a new instance of JobRepoImpl.
func NewJobRepo(db *pgxpool.Pool) *JobRepoImpl {
	return &JobRepoImpl{db: db}
}

// Migrate applies Schema.
func (r *JobRepoImpl) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, Schema)
	return err
}

// Save upserts the job and replaces its asset failures within a single transaction.
func (r *JobRepoImpl) Save(ctx context.Context, job *entity.JobRecord, failures []entity.AssetFailure) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO page_jobs (id, url, output_dir, status, page_path, assets_total, assets_failed, failure_reason, duration_ms, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			page_path = EXCLUDED.page_path,
			assets_total = EXCLUDED.assets_total,
			assets_failed = EXCLUDED.assets_failed,
			failure_reason = EXCLUDED.failure_reason,
			duration_ms = EXCLUDED.duration_ms,
			finished_at = EXCLUDED.finished_at;`,
		job.ID,
		job.URL,
		job.OutputDir,
		job.Status,
		job.PagePath,
		job.AssetsTotal,
		job.AssetsFailed,
		job.FailureReason,
		job.DurationMS,
		job.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert page job: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM asset_failures WHERE job_id = $1;`, job.ID); err != nil {
		return err
	}

	if len(failures) > 0 {
		batch := &pgx.Batch{}
		for _, f := range failures {
			batch.Queue(`INSERT INTO asset_failures (job_id, url, destination, stage, reason) VALUES ($1, $2, $3, $4, $5)
			             ON CONFLICT (job_id, url) DO NOTHING`,
				job.ID, f.URL, f.Destination, string(f.Stage), f.Reason)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert asset failures: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FindLatestByURL returns the most recently finished job for url.
func (r *JobRepoImpl) FindLatestByURL(ctx context.Context, url string) (*entity.JobRecord, error) {
	query := `
		SELECT id, url, output_dir, status, page_path, assets_total, assets_failed, failure_reason, duration_ms, finished_at
		FROM page_jobs
		WHERE url = $1
		ORDER BY finished_at DESC
		LIMIT 1;
	`
	var job entity.JobRecord
	err := r.db.QueryRow(ctx, query, url).Scan(
		&job.ID,
		&job.URL,
		&job.OutputDir,
		&job.Status,
		&job.PagePath,
		&job.AssetsTotal,
		&job.AssetsFailed,
		&job.FailureReason,
		&job.DurationMS,
		&job.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}
