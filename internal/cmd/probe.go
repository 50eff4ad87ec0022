package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/foodme/trafficgen/internal/config"
	"github.com/foodme/trafficgen/internal/traffic"
	"github.com/foodme/trafficgen/internal/transport"
	"github.com/foodme/trafficgen/internal/ui"
	"github.com/foodme/trafficgen/internal/utils"
)

var (
	// Probe parameters
	probeTarget  string
	probeCount   int
	probeTimeout time.Duration
	probeSeed    int64
)

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Preflight check of the target API",
	Long: `Send a short burst of well-formed requests before a real run.

The probe walks the endpoint catalog round-robin with no fault
injection and reports per-endpoint results. The bogus endpoint is
expected to answer 404; everything else must answer 2xx.

Exits non-zero if any endpoint misbehaves, so it can gate a traffic
run in scripts:

  trafficgen probe --target localhost:3000 && trafficgen chaos --target localhost:3000`,
	Run: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVarP(&probeTarget, "target", "t", "", "host:port or URL of the FoodMe API (required)")
	probeCmd.Flags().IntVar(&probeCount, "requests", config.ProbeRequests, "total probe requests")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", config.ProbeTimeout, "per-request timeout")
	probeCmd.Flags().Int64Var(&probeSeed, "seed", 0, "random seed for restaurant picks (0 = random)")

	probeCmd.MarkFlagRequired("target")
}

func runProbe(cmd *cobra.Command, args []string) {
	// Initialize UI
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	if probeCount < 1 {
		fmt.Fprintln(os.Stderr, u.Error("requests must be >= 1"))
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.Target = probeTarget
	cfg.Timeout = probeTimeout
	cfg.TrafficType = "probe"
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	plan, err := traffic.NewPlan(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	fmt.Println(u.Header("FoodMe Preflight Probe"))
	fmt.Println()
	fmt.Println(u.KeyValue("Target", plan.BaseURL()))
	fmt.Println(u.KeyValue("Requests", fmt.Sprintf("%d", probeCount)))
	fmt.Println(u.KeyValue("Timeout", probeTimeout.String()))
	fmt.Println()

	client := transport.New(transport.Options{
		Timeout:             probeTimeout,
		MaxIdleConns:        config.TransportMaxIdleConns,
		MaxIdleConnsPerHost: config.TransportMaxIdleConnsPerHost,
		MaxConnsPerHost:     config.TransportMaxConnsPerHost,
	})
	defer client.Close()

	rng := utils.NewRandom(probeSeed)
	metrics := traffic.NewMetrics()
	results := newProbeResults()

	// The first round trip gets its own spinner so an unreachable
	// target fails fast with a clear message
	spin := u.NewSpinner("Reaching target")
	spin.Start()
	o, latency := probeOnce(client, plan, rng, traffic.EndpointRoot)
	if !o.IsStatus() {
		spin.Error(string(o.Kind))
		os.Exit(1)
	}
	spin.Success(fmt.Sprintf("HTTP %d in %s", o.Status, latency.Round(time.Millisecond)))
	fmt.Println()

	metrics.Record(traffic.EndpointRoot, false, o, latency)
	results.add(traffic.EndpointRoot, o)

	// Remaining requests walk the catalog round-robin
	bar := u.NewProgressBar("Probing endpoints", int64(probeCount))
	bar.Update(1)
	for i := 1; i < probeCount; i++ {
		ep := traffic.Endpoints[i%len(traffic.Endpoints)]
		o, latency := probeOnce(client, plan, rng, ep)
		metrics.Record(ep, false, o, latency)
		results.add(ep, o)
		bar.Increment()
	}
	bar.Complete()
	fmt.Println()

	allOK := true
	for _, ep := range traffic.Endpoints {
		expect404 := ep == traffic.EndpointBogus
		result, ok := results.row(ep, expect404)
		if !ok {
			allOK = false
		}
		fmt.Println(u.EndpointRow(string(ep), result, ok))
	}

	printProbeSummary(u, metrics.Snapshot(), allOK)

	if !allOK {
		os.Exit(1)
	}
}

// probeOnce sends one well-formed request and classifies the outcome
func probeOnce(client *transport.Client, plan *traffic.Plan, rng *utils.Random, ep traffic.Endpoint) (traffic.Outcome, time.Duration) {
	start := time.Now()
	status, err := client.Do(context.Background(), plan.Build(rng, ep, false))
	latency := time.Since(start)

	if err != nil {
		return traffic.Outcome{Kind: traffic.Classify(err)}, latency
	}
	return traffic.Outcome{Status: status}, latency
}

// probeResults tracks per-endpoint outcomes for the result rows
type probeResults struct {
	statuses map[traffic.Endpoint]map[int]int
	kinds    map[traffic.Endpoint]map[traffic.ExceptionKind]int
}

func newProbeResults() *probeResults {
	return &probeResults{
		statuses: make(map[traffic.Endpoint]map[int]int),
		kinds:    make(map[traffic.Endpoint]map[traffic.ExceptionKind]int),
	}
}

func (r *probeResults) add(ep traffic.Endpoint, o traffic.Outcome) {
	if o.IsStatus() {
		if r.statuses[ep] == nil {
			r.statuses[ep] = make(map[int]int)
		}
		r.statuses[ep][o.Status]++
		return
	}
	if r.kinds[ep] == nil {
		r.kinds[ep] = make(map[traffic.ExceptionKind]int)
	}
	r.kinds[ep][o.Kind]++
}

// row renders one endpoint's outcomes and whether they all matched
// expectations: 2xx everywhere, except the bogus path which must 404.
func (r *probeResults) row(ep traffic.Endpoint, expect404 bool) (string, bool) {
	var parts []string
	ok := true

	codes := make([]int, 0, len(r.statuses[ep]))
	for code := range r.statuses[ep] {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%d x%d", code, r.statuses[ep][code]))
		if expect404 {
			if code != 404 {
				ok = false
			}
		} else if code < 200 || code >= 300 {
			ok = false
		}
	}

	kinds := make([]string, 0, len(r.kinds[ep]))
	for kind := range r.kinds[ep] {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s x%d", kind, r.kinds[ep][traffic.ExceptionKind(kind)]))
		ok = false
	}

	if len(parts) == 0 {
		return "not probed", true
	}
	return strings.Join(parts, ", "), ok
}

// printProbeSummary prints the styled probe result box
func printProbeSummary(u *ui.UI, snap traffic.Snapshot, allOK bool) {
	verdict := "healthy"
	if !allOK {
		verdict = "failing: unexpected endpoint results"
	}

	items := []ui.KV{
		{Key: "Requests", Value: fmt.Sprintf("%d", snap.Total)},
		{Key: "Responses", Value: fmt.Sprintf("%d", snap.TwoXX+snap.NonTwoXX)},
		{Key: "Exceptions", Value: fmt.Sprintf("%d", snap.Errors)},
	}
	if snap.LatencyCount > 0 {
		items = append(items,
			ui.KV{Key: "Latency p50", Value: snap.LatencyP50.Round(time.Microsecond).String()},
			ui.KV{Key: "Latency p95", Value: snap.LatencyP95.Round(time.Microsecond).String()},
		)
	}
	items = append(items, ui.KV{Key: "Verdict", Value: verdict})

	fmt.Println(u.SummaryBox("Probe Results", items))
}
