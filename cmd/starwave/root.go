package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "starwave",
	Short: "A music-artist career simulation",
	Long: `Starwave simulates a music artist's career: record and release songs,
grow an audience across platforms, sign label deals and chase award season.

Run "starwave serve" for the HTTP API or "starwave simulate" for a headless run.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config/config.json", "Path to configuration file")
}
