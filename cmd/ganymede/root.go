package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Ganymede - output invariant evaluation engine",
	Long: `Ganymede evaluates structured outputs against declarative invariant suites.

Suites are YAML files describing named invariants: schema checks, field
presence, numeric thresholds, latency and cost limits, and custom
validators resolved through an allow-listed callable registry.

Evaluation never raises: every failure mode (bad path, blocked path,
missing validator, panicking validator) folds into a failed result with
a descriptive message.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
