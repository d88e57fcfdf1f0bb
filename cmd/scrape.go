package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/pkg/config"
	"github.com/turfline/turfpulse/pkg/database"
	"github.com/turfline/turfpulse/scheduler"
	"github.com/turfline/turfpulse/server"
	"github.com/turfline/turfpulse/storage"
	"go.uber.org/zap"
)

var (
	scrapeJobID string
	scrapeKind  string
	scrapeTrack string
	scrapeURL   string
	scrapeForce bool
)

// scrapeCmd runs one batch to completion and prints the per-job outcomes.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "run one scrape batch",
	Long: `Processes due jobs and exits. --job runs one job regardless of due-ness,
--kind with --track runs an ad hoc scrape bypassing the schedule, and --force
processes every active job immediately.`,
	Run: func(cmd *cobra.Command, args []string) {
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

		runner, _ := server.BuildRunner(cfg, db, store)

		outcomes, err := runner.RunBatch(context.Background(), scheduler.BatchRequest{
			JobID: scrapeJobID,
			Kind:  models.JobKind(scrapeKind),
			Track: scrapeTrack,
			URL:   scrapeURL,
			Force: scrapeForce,
		})
		if err != nil {
			zap.L().Fatal("Batch failed", zap.Error(err))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(outcomes)
	},
}

func init() {
	RootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeJobID, "job", "", "explicit job id to run")
	scrapeCmd.Flags().StringVar(&scrapeKind, "kind", "", "ad hoc scrape kind (odds, will_pays, results, entries)")
	scrapeCmd.Flags().StringVar(&scrapeTrack, "track", "", "ad hoc scrape track")
	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "ad hoc scrape url override")
	scrapeCmd.Flags().BoolVar(&scrapeForce, "force", false, "process all active jobs regardless of due-ness")
}
