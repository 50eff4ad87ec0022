package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var verbose bool
var noColor bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trafficgen",
	Short: "Synthetic HTTP traffic generator for the FoodMe demo API",
	Long: `A synthetic traffic generator for the FoodMe demo restaurant API.

This tool issues paced request cycles against a running FoodMe instance,
mixing well-formed requests with deliberately malformed ones so that
dashboards and alerting pipelines have realistic traffic to chew on.
Endpoint mix, fault injection rates, pacing and reporting cadence are
configurable per run, and seeded runs are reproducible.

Example usage:
  trafficgen probe --target localhost:3000
  trafficgen good --target localhost:3000
  trafficgen chaos --target localhost:3000 --duration 10m
  trafficgen run --config traffic.yaml --watch`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors and animations")

	// Silence usage on error - we'll print our own messages
	rootCmd.SilenceUsage = true

	// Set version template
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Verbose returns whether verbose mode is enabled
func Verbose() bool {
	return verbose
}

// Exit with code
func Exit(code int) {
	os.Exit(code)
}
