package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/foodme/trafficgen/internal/config"
	"github.com/foodme/trafficgen/internal/ui"
)

var (
	// Chaos-profile overrides
	chaosTarget   string
	chaosRate     float64
	chaosDuration time.Duration
	chaosSeed     int64
)

// chaosCmd represents the chaos command
var chaosCmd = &cobra.Command{
	Use:   "chaos",
	Short: "Run the alert-exercising chaos traffic profile",
	Long: `Run the misbehaving traffic preset against a FoodMe instance.

A high request rate skewed toward order submissions and unknown paths,
with aggressive fault injection: half of all orders are corrupted, a
third of menu lookups use an unknown restaurant, and every bogus-path
request hits an unregistered route.

Bounded to five minutes by default so a forgotten run does not hammer
the target all day.

Example:
  trafficgen chaos --target localhost:3000
  trafficgen chaos --target localhost:3000 --duration 10m --seed 42`,
	Run: runChaos,
}

func init() {
	rootCmd.AddCommand(chaosCmd)

	defaults := config.ChaosProfile()
	chaosCmd.Flags().StringVarP(&chaosTarget, "target", "t", "", "host:port or URL of the FoodMe API (required)")
	chaosCmd.Flags().Float64Var(&chaosRate, "rate", defaults.Rate, "request cycles per second")
	chaosCmd.Flags().DurationVar(&chaosDuration, "duration", defaults.Duration, "how long to run (0 = until stopped)")
	chaosCmd.Flags().Int64Var(&chaosSeed, "seed", 0, "random seed for reproducibility (0 = random)")

	chaosCmd.MarkFlagRequired("target")
}

func runChaos(cmd *cobra.Command, args []string) {
	// Initialize UI
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	cfg := config.ChaosProfile()
	cfg.Target = chaosTarget
	cfg.Rate = chaosRate
	cfg.Duration = chaosDuration
	cfg.Seed = chaosSeed

	startTraffic(u, cfg, nil, false)
}
