package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/foodme/trafficgen/internal/config"
	"github.com/foodme/trafficgen/internal/ui"
)

var (
	// Good-profile overrides
	goodTarget   string
	goodRate     float64
	goodDuration time.Duration
	goodSeed     int64
)

// goodCmd represents the good command
var goodCmd = &cobra.Command{
	Use:   "good",
	Short: "Run the steady background traffic profile",
	Long: `Run the well-behaved traffic preset against a FoodMe instance.

A modest request rate, a browsing-heavy endpoint mix, and no fault
injection. Meant to keep dashboards fed with a realistic baseline while
alerting is exercised by a chaos run elsewhere.

Runs until stopped unless --duration is set.

Example:
  trafficgen good --target localhost:3000
  trafficgen good --target localhost:3000 --rate 5 --duration 2h`,
	Run: runGood,
}

func init() {
	rootCmd.AddCommand(goodCmd)

	defaults := config.GoodProfile()
	goodCmd.Flags().StringVarP(&goodTarget, "target", "t", "", "host:port or URL of the FoodMe API (required)")
	goodCmd.Flags().Float64Var(&goodRate, "rate", defaults.Rate, "request cycles per second")
	goodCmd.Flags().DurationVar(&goodDuration, "duration", defaults.Duration, "how long to run (0 = until stopped)")
	goodCmd.Flags().Int64Var(&goodSeed, "seed", 0, "random seed for reproducibility (0 = random)")

	goodCmd.MarkFlagRequired("target")
}

func runGood(cmd *cobra.Command, args []string) {
	// Initialize UI
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	cfg := config.GoodProfile()
	cfg.Target = goodTarget
	cfg.Rate = goodRate
	cfg.Duration = goodDuration
	cfg.Seed = goodSeed

	startTraffic(u, cfg, nil, false)
}
