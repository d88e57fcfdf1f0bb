package server

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/turfline/turfpulse/api"
	"github.com/turfline/turfpulse/crawler"
	"github.com/turfline/turfpulse/ingest"
	"github.com/turfline/turfpulse/pkg/config"
	"github.com/turfline/turfpulse/pkg/database"
	"github.com/turfline/turfpulse/scheduler"
	"github.com/turfline/turfpulse/scraper"
	"github.com/turfline/turfpulse/storage"
	"go.uber.org/zap"
)

const migrationsPath = "file://pkg/database/migrations"

// Start wires the pipeline and runs it until interrupted: the HTTP trigger
// surface, the scheduler tick loop, and (when enabled) the odds-push poller.
func Start() {
	cfg := config.LoadConfig()

	store, err := storage.NewMongoStorage(cfg.MongoURI, cfg.Database, zap.L())
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer store.Close()

	db, err := database.NewDB(cfg.DatabaseURL, zap.L())
	if err != nil {
		zap.L().Fatal("Failed to connect to job store", zap.Error(err))
	}
	defer db.Close()
	if err := db.Migrate(migrationsPath); err != nil {
		zap.L().Fatal("Failed to migrate job store", zap.Error(err))
	}

	runner, jobs := BuildRunner(cfg, db, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go tickLoop(ctx, runner, cfg.TickInterval)
	if cfg.PushEnabled {
		runner.StartOddsPush(ctx, cfg.PushInterval)
	}

	router := api.SetupRouter(jobs, runner, store)
	go func() {
		if err := router.Run(":" + cfg.HTTPPort); err != nil {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	<-sigChan
	zap.L().Info("Shutting down...")
}

// BuildRunner assembles the scrape pipeline from its parts.
func BuildRunner(cfg config.Config, db *database.DB, store *storage.MongoStorage) (*scheduler.Runner, *scheduler.JobStore) {
	fetcher := scraper.NewCollyFetcher(cfg, zap.L())
	navigator := crawler.NewNavigator(fetcher, cfg.MaxRacesPerTrack, zap.L())
	ingestor := ingest.NewIngestor(store, zap.L())
	jobs := scheduler.NewJobStore(db, zap.L())
	runner := scheduler.NewRunner(jobs, fetcher, navigator, ingestor, zap.L())
	return runner, jobs
}

// tickLoop is the timer invocation of the scheduler: each tick processes the
// currently due batch to completion.
func tickLoop(ctx context.Context, runner *scheduler.Runner, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			outcomes, err := runner.RunBatch(ctx, scheduler.BatchRequest{})
			if err != nil {
				zap.L().Error("Scheduled batch failed", zap.Error(err))
				continue
			}
			if len(outcomes) > 0 {
				zap.L().Info("Scheduled batch finished", zap.Int("jobs", len(outcomes)))
			}
		}
	}
}
