package scheduler

import (
	"context"
	"time"

	"github.com/turfline/turfpulse/models"
	"go.uber.org/zap"
)

// StartOddsPush runs the auxiliary low-latency odds poller until ctx is
// cancelled. Each tick re-scrapes every active odds job without touching its
// schedule state, so the regular recurrence is unaffected. Disabled by
// default; enabled via configuration.
func (r *Runner) StartOddsPush(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		r.logger.Info("Odds push poller started", zap.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				r.logger.Info("Odds push poller stopped")
				return
			case <-ticker.C:
				r.pushOdds(ctx)
			}
		}
	}()
}

func (r *Runner) pushOdds(ctx context.Context) {
	jobs, err := r.jobs.ListActiveJobs(ctx)
	if err != nil {
		r.logger.Error("Odds push: failed to list jobs", zap.Error(err))
		return
	}
	for i := range jobs {
		job := &jobs[i]
		if job.Kind != models.JobKindOdds {
			continue
		}
		count, err := r.execute(ctx, job.Kind, job.Track, job.URL, r.now())
		if err != nil {
			r.logger.Warn("Odds push failed",
				zap.String("track", job.Track),
				zap.Error(err))
			continue
		}
		r.logger.Debug("Odds push completed",
			zap.String("track", job.Track),
			zap.Int("records", count))
	}
}
