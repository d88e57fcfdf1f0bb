package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turfline/turfpulse/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "scrape pipeline service",
	Long:  `Starts the scheduler, the odds-push poller when enabled, and the HTTP trigger API.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	viper.SetDefault("port", "3001")
}
