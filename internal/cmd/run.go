package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/foodme/trafficgen/internal/config"
	"github.com/foodme/trafficgen/internal/traffic"
	"github.com/foodme/trafficgen/internal/transport"
	"github.com/foodme/trafficgen/internal/ui"
)

var (
	// Run parameters (frequently changed)
	configFile  string
	target      string
	rate        float64
	duration    time.Duration
	seed        int64
	trafficType string

	// Pacing and reporting
	timeout         time.Duration
	summaryInterval time.Duration
	concurrency     int
	windowed        bool
	watchCfg        bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run paced synthetic traffic against a FoodMe instance",
	Long: `Run paced synthetic traffic against a FoodMe instance.

Each cycle picks one endpoint by weight, optionally corrupts the request
per that endpoint's error rate, sends it, and classifies the outcome.
Aggregate summaries are logged on a fixed cadence and once at the end.

Settings come from built-in defaults, then an optional YAML config file,
then CLI flags; later sources win. With --watch (or on SIGHUP) the
config file is re-read mid-run and the new mix applies to new cycles.

Example:
  trafficgen run --target localhost:3000
  trafficgen run --config traffic.yaml --watch
  trafficgen run --target localhost:3000 --rate 10 --duration 15m
  trafficgen run --config traffic.yaml --seed 42    # Reproducible`,
	Run: runTraffic,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file (flags override file values)")
	runCmd.Flags().StringVarP(&target, "target", "t", "", "host:port or URL of the FoodMe API")
	runCmd.Flags().Float64Var(&rate, "rate", config.DefaultRate, "request cycles per second")
	runCmd.Flags().DurationVar(&duration, "duration", 0, "how long to run (0 = until stopped)")
	runCmd.Flags().DurationVar(&timeout, "timeout", config.DefaultTimeout, "per-request timeout")
	runCmd.Flags().DurationVar(&summaryInterval, "summary-interval", config.DefaultSummaryInterval, "summary cadence (0 = final summary only)")
	runCmd.Flags().IntVar(&concurrency, "concurrency", config.DefaultConcurrency, "max in-flight cycles")
	runCmd.Flags().StringVar(&trafficType, "traffic-type", config.DefaultTrafficType, "label stamped on requests (User-Agent, X-Traffic-Type)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducibility (0 = random)")
	runCmd.Flags().BoolVar(&windowed, "windowed", false, "periodic summaries report per-interval deltas instead of running totals")
	runCmd.Flags().BoolVar(&watchCfg, "watch", false, "watch the config file and hot-reload the traffic plan")
}

func runTraffic(cmd *cobra.Command, args []string) {
	// Initialize UI
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	if watchCfg && configFile == "" {
		fmt.Fprintln(os.Stderr, u.Error("--watch requires --config"))
		os.Exit(1)
	}

	cfg, v, err := loadRunConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	// Without a file there is nothing to reload
	if configFile == "" {
		v = nil
	}

	startTraffic(u, cfg, v, watchCfg)
}

// loadRunConfig builds the effective config: compile-time defaults,
// then the config file, then explicitly set CLI flags.
func loadRunConfig(cmd *cobra.Command) (*config.Config, *viper.Viper, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Only flags the user actually set override the file
	overrides := []struct {
		flag  string
		key   string
		value any
	}{
		{"target", "target", target},
		{"rate", "rate", rate},
		{"traffic-type", "traffic_type", trafficType},
		{"duration", "duration", duration},
		{"timeout", "timeout", timeout},
		{"summary-interval", "summary_interval", summaryInterval},
		{"concurrency", "concurrency", concurrency},
		{"seed", "seed", seed},
		{"windowed", "windowed_summaries", windowed},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			v.Set(o.key, o.value)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// startTraffic validates the config, wires the HTTP client and the
// generator, and runs traffic until the duration elapses or a signal
// arrives. A non-nil viper enables SIGHUP reload; watch additionally
// reloads on file change.
func startTraffic(u *ui.UI, cfg *config.Config, v *viper.Viper, watch bool) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	plan, err := traffic.NewPlan(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	client := transport.New(transport.Options{
		Timeout:             cfg.Timeout,
		MaxIdleConns:        config.TransportMaxIdleConns,
		MaxIdleConnsPerHost: config.TransportMaxIdleConnsPerHost,
		MaxConnsPerHost:     config.TransportMaxConnsPerHost,
	})

	// The generator closes the client when the run ends
	g := traffic.New(cfg, plan, client)
	g.SetLogf(func(format string, args ...any) {
		stamp := u.Muted("[" + time.Now().Format("15:04:05") + "]")
		fmt.Println(stamp + " " + u.StatLine(fmt.Sprintf(format, args...)))
	})

	runID := uuid.NewString()

	fmt.Println(u.Header("FoodMe Traffic Generator"))
	fmt.Println()
	printRunHeader(u, cfg, plan, g, runID)
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful stop on the first signal, forced exit on the second
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println()
		fmt.Println(u.Warning("Received shutdown signal, draining in-flight requests"))
		g.Stop()
		<-sigCh
		fmt.Fprintln(os.Stderr, u.Error("Forced exit"))
		os.Exit(130)
	}()

	if v != nil {
		apply := func(cfg *config.Config, err error) {
			if err != nil {
				fmt.Println(u.Warning(fmt.Sprintf("Config reload failed, keeping active plan: %v", err)))
				return
			}
			plan, err := traffic.NewPlan(cfg)
			if err != nil {
				fmt.Println(u.Warning(fmt.Sprintf("Config reload failed, keeping active plan: %v", err)))
				return
			}
			g.SwapPlan(plan)
			fmt.Println(u.Success("Traffic plan reloaded"))
		}

		// SIGHUP forces a re-read of the config file
		hupCh := make(chan os.Signal, 1)
		signal.Notify(hupCh, syscall.SIGHUP)
		defer signal.Stop(hupCh)
		go func() {
			for range hupCh {
				apply(config.Reload(v))
			}
		}()

		if watch {
			config.Watch(v, apply)
		}
	}

	start := time.Now()
	if err := g.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	printRunSummary(u, g.Snapshot(), time.Since(start))
}

// printRunHeader prints the startup key-value block
func printRunHeader(u *ui.UI, cfg *config.Config, plan *traffic.Plan, g *traffic.Generator, runID string) {
	fmt.Println(u.KeyValue("Target", plan.BaseURL()))
	fmt.Println(u.KeyValue("Traffic", cfg.TrafficType))
	fmt.Println(u.KeyValue("Rate", fmt.Sprintf("%.2f req/s", cfg.Rate)))
	fmt.Println(u.KeyValue("Concurrency", fmt.Sprintf("%d in flight", cfg.Concurrency)))
	if cfg.Duration > 0 {
		fmt.Println(u.KeyValue("Duration", cfg.Duration.String()))
	} else {
		fmt.Println(u.KeyValue("Duration", "until stopped (Ctrl+C)"))
	}
	if cfg.SummaryInterval > 0 {
		mode := "running totals"
		if cfg.WindowedSummaries {
			mode = "per-interval"
		}
		fmt.Println(u.KeyValue("Summaries", fmt.Sprintf("every %s (%s)", cfg.SummaryInterval, mode)))
	} else {
		fmt.Println(u.KeyValue("Summaries", "final only"))
	}
	fmt.Println(u.KeyValue("Mix", formatWeights(cfg.Weights)))
	if rates := formatRates(cfg.ErrorRates); rates != "" {
		fmt.Println(u.KeyValue("Error Rates", rates))
	}
	fmt.Println(u.KeyValue("Seed", fmt.Sprintf("%d (reuse with --seed)", g.Seed())))
	fmt.Println(u.KeyValue("Run ID", runID))
	if verbose {
		fmt.Println(u.KeyValue("Timeout", cfg.Timeout.String()))
		fmt.Println(u.KeyValue("Conn Pool", fmt.Sprintf("%d idle", config.TransportMaxIdleConns)))
	}
}

// formatWeights renders the selectable part of the mix in catalog order
func formatWeights(weights map[string]float64) string {
	parts := make([]string, 0, len(weights))
	for _, ep := range traffic.Endpoints {
		if w, ok := weights[string(ep)]; ok && w > 0 {
			parts = append(parts, fmt.Sprintf("%s:%g", ep, w))
		}
	}
	return strings.Join(parts, " ")
}

// formatRates renders non-zero fault injection rates in catalog order
func formatRates(rates map[string]float64) string {
	parts := make([]string, 0, len(rates))
	for _, ep := range traffic.Endpoints {
		if r, ok := rates[string(ep)]; ok && r > 0 {
			parts = append(parts, fmt.Sprintf("%s:%g%%", ep, r*100))
		}
	}
	return strings.Join(parts, " ")
}

// printRunSummary prints the styled end-of-run box
func printRunSummary(u *ui.UI, snap traffic.Snapshot, elapsed time.Duration) {
	items := []ui.KV{
		{Key: "Cycles", Value: fmt.Sprintf("%d", snap.Total)},
		{Key: "2xx", Value: fmt.Sprintf("%d", snap.TwoXX)},
		{Key: "Non-2xx", Value: fmt.Sprintf("%d", snap.NonTwoXX)},
		{Key: "Exceptions", Value: fmt.Sprintf("%d", snap.Errors)},
		{Key: "Injected Faults", Value: fmt.Sprintf("%d", snap.Injected)},
	}
	if snap.LatencyCount > 0 {
		items = append(items,
			ui.KV{Key: "Latency p50", Value: snap.LatencyP50.Round(time.Microsecond).String()},
			ui.KV{Key: "Latency p95", Value: snap.LatencyP95.Round(time.Microsecond).String()},
			ui.KV{Key: "Latency max", Value: snap.LatencyMax.Round(time.Microsecond).String()},
		)
	}
	items = append(items,
		ui.KV{Key: "Elapsed", Value: elapsed.Round(time.Millisecond).String()},
		ui.KV{Key: "Verdict", Value: verdict(snap)},
	)

	fmt.Println(u.SummaryBox("Run Complete", items))
}

// verdict reduces a snapshot to a one-line health call. Injected faults
// are supposed to draw non-2xx responses, so only transport exceptions
// and unprovoked non-2xx count against the target.
func verdict(snap traffic.Snapshot) string {
	switch {
	case snap.Total == 0:
		return "no traffic sent"
	case snap.Errors > 0:
		return fmt.Sprintf("degraded: %d transport exceptions", snap.Errors)
	case snap.NonTwoXX > snap.Injected:
		return "degraded: non-2xx responses beyond injected faults"
	default:
		return "healthy"
	}
}
