package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turfline/turfpulse/logging"
	"go.uber.org/zap"
)

var RootCmd = &cobra.Command{
	Use:   "turfpulse",
	Short: "turfpulse racing odds scrape pipeline",
	Long:  `Scheduled scraping and reconciliation of live horse-racing odds, will-pays, results and entries.`,
}

func Execute() {
	viper.AutomaticEnv()
	viper.SetDefault("LOG_LEVEL", "debug")

	logger := logging.SetupLogger("turfpulse.log")
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := RootCmd.Execute(); err != nil {
		zap.L().Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}
