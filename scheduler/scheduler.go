// Package scheduler owns the recurring-job state machine: it selects due
// jobs, dispatches them to the right extraction cascade, forwards records to
// ingestion, and advances every job's next run time whether the run succeeded
// or failed. A bad run degrades data freshness; it never halts the pipeline.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/turfline/turfpulse/ingest"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/scraper"
	"github.com/turfline/turfpulse/tracks"
	"go.uber.org/zap"
)

// JobRepository is the job-store surface the runner needs.
type JobRepository interface {
	GetJob(ctx context.Context, id string) (*models.ScrapeJob, error)
	SelectDueJobs(ctx context.Context, now time.Time) ([]models.ScrapeJob, error)
	ListActiveJobs(ctx context.Context) ([]models.ScrapeJob, error)
	MarkRunning(ctx context.Context, id string) error
	RecordOutcome(ctx context.Context, id string, status models.JobStatus, lastRunAt *time.Time, nextRunAt time.Time) error
}

// Ingestor persists an extraction and reports how many records were stored.
type Ingestor interface {
	Ingest(ctx context.Context, ext scraper.Extraction) (int, error)
}

// EntriesWalker crawls the multi-page entries domain.
type EntriesWalker interface {
	Walk(ctx context.Context, indexURL string, ectx scraper.Context) ([]models.EntryRecord, error)
}

// BatchRequest selects which jobs a batch invocation processes. It may name
// an explicit job id, describe an ad hoc single-shot scrape bypassing the
// schedule, or force all active jobs regardless of due-ness. With none of
// those set, the batch processes whatever is due.
type BatchRequest struct {
	JobID string
	Kind  models.JobKind
	Track string
	URL   string
	Force bool
}

// Runner executes scrape jobs.
type Runner struct {
	jobs      JobRepository
	fetcher   scraper.Fetcher
	navigator EntriesWalker
	ingestor  Ingestor
	logger    *zap.Logger
	now       func() time.Time
}

func NewRunner(jobs JobRepository, fetcher scraper.Fetcher, navigator EntriesWalker, ingestor Ingestor, logger *zap.Logger) *Runner {
	return &Runner{
		jobs:      jobs,
		fetcher:   fetcher,
		navigator: navigator,
		ingestor:  ingestor,
		logger:    logger,
		now:       time.Now,
	}
}

var _ Ingestor = (*ingest.Ingestor)(nil)

// RunBatch processes the jobs the request selects and returns a per-job
// outcome list. Per-job failures are isolated: every selected job produces an
// outcome even when all of them fail. Only a failure to reach the job store
// fails the batch itself.
func (r *Runner) RunBatch(ctx context.Context, req BatchRequest) ([]models.JobOutcome, error) {
	if req.Kind != "" {
		return []models.JobOutcome{r.runAdHoc(ctx, req)}, nil
	}

	jobs, err := r.selectJobs(ctx, req)
	if err != nil {
		return nil, err
	}

	outcomes := make([]models.JobOutcome, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = r.runJob(ctx, &jobs[i])
		}(i)
	}
	wg.Wait()
	return outcomes, nil
}

func (r *Runner) selectJobs(ctx context.Context, req BatchRequest) ([]models.ScrapeJob, error) {
	if req.JobID != "" {
		job, err := r.jobs.GetJob(ctx, req.JobID)
		if err != nil {
			return nil, err
		}
		return []models.ScrapeJob{*job}, nil
	}
	if req.Force {
		return r.jobs.ListActiveJobs(ctx)
	}
	return r.jobs.SelectDueJobs(ctx, r.now())
}

// runJob drives the state machine for one execution attempt:
// running -> completed|failed, with next_run_at advanced by the job interval
// on either outcome.
func (r *Runner) runJob(ctx context.Context, job *models.ScrapeJob) models.JobOutcome {
	runTime := r.now()
	outcome := models.JobOutcome{JobID: job.ID, Kind: job.Kind, Track: job.Track}

	if err := r.jobs.MarkRunning(ctx, job.ID); err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	count, execErr := r.execute(ctx, job.Kind, job.Track, job.URL, runTime)
	nextRunAt := runTime.Add(job.Interval())

	if execErr != nil {
		if err := r.jobs.RecordOutcome(ctx, job.ID, models.JobStatusFailed, nil, nextRunAt); err != nil {
			r.logger.Error("Failed to record job outcome", zap.String("job_id", job.ID), zap.Error(err))
		}
		outcome.Error = execErr.Error()
		r.logger.Warn("Scrape job failed",
			zap.String("job_id", job.ID),
			zap.String("track", job.Track),
			zap.String("kind", string(job.Kind)),
			zap.Time("next_run_at", nextRunAt),
			zap.Error(execErr))
		return outcome
	}

	if err := r.jobs.RecordOutcome(ctx, job.ID, models.JobStatusCompleted, &runTime, nextRunAt); err != nil {
		r.logger.Error("Failed to record job outcome", zap.String("job_id", job.ID), zap.Error(err))
	}
	outcome.Success = true
	outcome.RecordCount = count
	r.logger.Info("Scrape job completed",
		zap.String("job_id", job.ID),
		zap.String("track", job.Track),
		zap.String("kind", string(job.Kind)),
		zap.Int("records", count))
	return outcome
}

// runAdHoc executes a single-shot scrape that bypasses the schedule and
// touches no job state.
func (r *Runner) runAdHoc(ctx context.Context, req BatchRequest) models.JobOutcome {
	outcome := models.JobOutcome{Kind: req.Kind, Track: req.Track}
	if !models.ValidJobKind(req.Kind) {
		outcome.Error = fmt.Sprintf("unknown job kind: %s", req.Kind)
		return outcome
	}
	count, err := r.execute(ctx, req.Kind, req.Track, req.URL, r.now())
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Success = true
	outcome.RecordCount = count
	return outcome
}

// execute runs the strictly sequential per-job steps: resolve URL, fetch,
// extract, ingest.
func (r *Runner) execute(ctx context.Context, kind models.JobKind, track, jobURL string, runTime time.Time) (int, error) {
	ectx := scraper.Context{
		Track:      track,
		RaceDate:   runTime.UTC().Format("2006-01-02"),
		CapturedAt: runTime,
	}
	if t, ok := tracks.Lookup(track); ok {
		ectx.Track = t.Name
	}

	if kind == models.JobKindEntries {
		indexURL := jobURL
		if indexURL == "" {
			indexURL = tracks.ScheduleIndexURL()
		}
		ectx.SourceURL = indexURL
		records, err := r.navigator.Walk(ctx, indexURL, ectx)
		if err != nil {
			return 0, err
		}
		return r.ingestor.Ingest(ctx, scraper.Extraction{Entries: records})
	}

	pageURL := jobURL
	if pageURL == "" {
		resolved, err := tracks.ResolveURL(track, kind, 0)
		if err != nil {
			return 0, err
		}
		pageURL = resolved
	}
	ectx.SourceURL = pageURL

	doc, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return 0, err
	}

	ext := scraper.Extract(kind, doc, ectx)
	r.logger.Debug("Extraction finished",
		zap.String("track", ectx.Track),
		zap.String("kind", string(kind)),
		zap.String("strategy", string(ext.Strategy)),
		zap.Int("records", ext.Count()))

	return r.ingestor.Ingest(ctx, ext)
}
