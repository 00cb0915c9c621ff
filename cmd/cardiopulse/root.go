package main

import (
	"github.com/spf13/cobra"

	"github.com/Gowtham-1301/cardiopulse/internal/logging"
)

var (
	configFile string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "cardiopulse",
	Short: "Streaming ECG R-peak detection and heart-rate monitoring",
	Long: `CardioPulse detects R-peaks in streaming ECG signals and derives
heart-rate and HRV metrics. It can monitor live sessions with an HTTP API
and terminal dashboard, replay recorded CSV files, or feed synthetic
waveforms into a NATS subject.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logFormat == "json" {
			logging.SetFormat(logging.FormatJSON)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(feedCmd)
}
