package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/pkg/database"
	"go.uber.org/zap"
)

// ErrJobNotFound indicates that the job was not found.
var ErrJobNotFound = errors.New("scrape job not found")

// JobStore persists scrape jobs in Postgres.
type JobStore struct {
	db     *database.DB
	logger *zap.Logger
}

func NewJobStore(db *database.DB, logger *zap.Logger) *JobStore {
	return &JobStore{db: db, logger: logger}
}

// CreateJob inserts a new job. A missing id is assigned and next_run_at
// defaults to now so the job is immediately due; a job is never created
// without a future run time.
func (s *JobStore) CreateJob(ctx context.Context, job *models.ScrapeJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}
	now := time.Now().UTC()
	if job.NextRunAt.IsZero() {
		job.NextRunAt = now
	}
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `INSERT INTO scrape_jobs
		(id, track, kind, url, interval_seconds, active, status, last_run_at, next_run_at, created_at, updated_at)
		VALUES (:id, :track, :kind, :url, :interval_seconds, :active, :status, :last_run_at, :next_run_at, :created_at, :updated_at)`
	if _, err := s.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by id.
func (s *JobStore) GetJob(ctx context.Context, id string) (*models.ScrapeJob, error) {
	var job models.ScrapeJob
	err := s.db.GetContext(ctx, &job, `SELECT * FROM scrape_jobs WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return &job, nil
}

// UpdateJob applies operator-editable fields: track, url, interval, active.
func (s *JobStore) UpdateJob(ctx context.Context, job *models.ScrapeJob) error {
	query := `UPDATE scrape_jobs
		SET track = $2, url = $3, interval_seconds = $4, active = $5, updated_at = now()
		WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, job.ID, job.Track, job.URL, job.IntervalSeconds, job.Active)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJobNotFound
	}
	return nil
}

// DisableJob soft-disables a job. Jobs referenced by history are never
// hard-deleted.
func (s *JobStore) DisableJob(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scrape_jobs SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to disable job %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJobNotFound
	}
	return nil
}

// SelectDueJobs returns all active jobs whose next_run_at has elapsed,
// most overdue first.
func (s *JobStore) SelectDueJobs(ctx context.Context, now time.Time) ([]models.ScrapeJob, error) {
	var jobs []models.ScrapeJob
	query := `SELECT * FROM scrape_jobs
		WHERE active AND next_run_at <= $1
		ORDER BY next_run_at ASC`
	if err := s.db.SelectContext(ctx, &jobs, query, now); err != nil {
		return nil, fmt.Errorf("failed to select due jobs: %w", err)
	}
	return jobs, nil
}

// ListActiveJobs returns every active job regardless of due-ness.
func (s *JobStore) ListActiveJobs(ctx context.Context) ([]models.ScrapeJob, error) {
	var jobs []models.ScrapeJob
	query := `SELECT * FROM scrape_jobs WHERE active ORDER BY next_run_at ASC`
	if err := s.db.SelectContext(ctx, &jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	return jobs, nil
}

// MarkRunning records the running status at the start of an execution.
func (s *JobStore) MarkRunning(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE scrape_jobs SET status = $2, updated_at = now() WHERE id = $1`,
		id, models.JobStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to mark job %s running: %w", id, err)
	}
	return nil
}

// RecordOutcome writes the terminal status of an execution attempt plus the
// advanced next run time. Both success and failure advance next_run_at.
func (s *JobStore) RecordOutcome(ctx context.Context, id string, status models.JobStatus, lastRunAt *time.Time, nextRunAt time.Time) error {
	query := `UPDATE scrape_jobs
		SET status = $2, last_run_at = COALESCE($3, last_run_at), next_run_at = $4, updated_at = now()
		WHERE id = $1`
	_, err := s.db.ExecContext(ctx, query, id, status, lastRunAt, nextRunAt)
	if err != nil {
		return fmt.Errorf("failed to record outcome for job %s: %w", id, err)
	}
	return nil
}
