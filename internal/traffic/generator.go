// Package traffic implements the synthetic load cycle against a FoodMe
// deployment.
//
// FILE: generator.go
// PURPOSE: The pacing loop. Drives request cycles at the configured
// rate, dispatches execution to a bounded worker pool, and emits
// periodic summaries plus exactly one FINAL summary on exit.
//
// KEY TYPES:
// - RunState: Lifecycle states (Idle, Running, Stopping, Stopped)
// - Executor: The transport seam, satisfied by transport.Client
// - Generator: Owns the loop, the RNG, and the metrics aggregator
//
// RELATED FILES:
// - plan.go: The swappable traffic mix the loop draws from
// - metrics.go: Aggregation and summary formatting
package traffic

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foodme/trafficgen/internal/config"
	"github.com/foodme/trafficgen/internal/transport"
	"github.com/foodme/trafficgen/internal/utils"
)

// RunState represents the lifecycle state of a Generator.
type RunState int32

const (
	StateIdle RunState = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Executor sends one request and reports the status line or the error
// that prevented one. *transport.Client satisfies it; tests substitute
// their own.
type Executor interface {
	Do(ctx context.Context, req transport.Request) (int, error)
	Close()
}

// Generator owns one traffic run: the RNG that makes all selection and
// injection decisions, the metrics aggregator, and the currently active
// plan. Rate, timeout, duration, and summary cadence are fixed when the
// run starts; only the plan can be swapped while running.
type Generator struct {
	cfg     *config.Config
	exec    Executor
	rng     *utils.Random
	metrics *Metrics

	plan  atomic.Pointer[Plan]
	state atomic.Int32

	logf func(format string, args ...any)
}

// New creates a Generator in the Idle state. The config must already
// be validated and the plan compiled from it.
func New(cfg *config.Config, plan *Plan, exec Executor) *Generator {
	g := &Generator{
		cfg:     cfg,
		exec:    exec,
		rng:     utils.NewRandom(cfg.Seed),
		metrics: NewMetrics(),
	}
	g.plan.Store(plan)
	g.logf = func(format string, args ...any) {
		fmt.Printf("[%s] "+format+"\n", append([]any{time.Now().Format("15:04:05")}, args...)...)
	}
	return g
}

// SetLogf redirects the generator's summary lines. Must be called
// before Run.
func (g *Generator) SetLogf(fn func(format string, args ...any)) {
	if fn != nil {
		g.logf = fn
	}
}

// Seed returns the seed driving this run's random decisions. Passing it
// back via config replays the same endpoint and injection sequence.
func (g *Generator) Seed() uint64 { return g.rng.Seed() }

// State returns the current lifecycle state.
func (g *Generator) State() RunState { return RunState(g.state.Load()) }

// Snapshot returns the metrics collected so far. Safe to call from any
// goroutine, including while the run loop is active.
func (g *Generator) Snapshot() Snapshot { return g.metrics.Snapshot() }

// SwapPlan atomically replaces the traffic mix for subsequent cycles.
// In-flight cycles keep the requests they were built with.
func (g *Generator) SwapPlan(p *Plan) {
	if p != nil {
		g.plan.Store(p)
	}
}

// Stop asks the run loop to exit at the next cycle boundary. Safe to
// call from any goroutine and more than once. Stopping before Run
// prevents the run from starting at all.
func (g *Generator) Stop() {
	if g.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return
	}
	g.state.CompareAndSwap(int32(StateIdle), int32(StateStopping))
}

// Run drives request cycles until the configured duration elapses, the
// context is cancelled, or Stop is called. It always emits exactly one
// FINAL summary and closes the executor before returning, and can only
// be called once per Generator.
func (g *Generator) Run(ctx context.Context) error {
	if !g.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return fmt.Errorf("cannot start run from state %s", g.State())
	}

	interval := time.Duration(float64(time.Second) / g.cfg.Rate)
	sem := make(chan struct{}, g.cfg.Concurrency)
	var wg sync.WaitGroup

	start := time.Now()
	var nextSummary time.Time
	if g.cfg.SummaryInterval > 0 {
		nextSummary = start.Add(g.cfg.SummaryInterval)
	}
	var prev Snapshot

	plan := g.plan.Load()
	g.logf("Starting %s traffic at %.2f rps against %s", plan.TrafficType(), g.cfg.Rate, plan.BaseURL())

	defer func() {
		wg.Wait()
		g.logf("%s", g.metrics.Snapshot().FormatLine(LabelFinal, time.Since(start)))
		g.exec.Close()
		g.state.Store(int32(StateStopped))
	}()

loop:
	for g.state.Load() == int32(StateRunning) && ctx.Err() == nil {
		cycleStart := time.Now()

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break loop
		}

		// All random draws happen here in the pacer, never in workers,
		// so a seed fully determines the selection sequence regardless
		// of concurrency.
		plan := g.plan.Load()
		ep := plan.Pick(g.rng)
		inject := plan.ShouldInject(g.rng, ep)
		req := plan.Build(g.rng, ep, inject)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			g.executeCycle(ep, inject, req)
		}()

		now := time.Now()
		if g.cfg.Duration > 0 && now.Sub(start) >= g.cfg.Duration {
			g.logf("Requested duration %s reached, stopping", g.cfg.Duration)
			break
		}
		if !nextSummary.IsZero() && !now.Before(nextSummary) {
			snap := g.metrics.Snapshot()
			line := snap
			if g.cfg.WindowedSummaries {
				line = snap.Delta(prev)
			}
			g.logf("%s", line.FormatLine(LabelSummary, now.Sub(start)))
			prev = snap
			// Reschedule from now rather than the missed slot, so a
			// slow patch of cycles does not cause a summary burst.
			nextSummary = now.Add(g.cfg.SummaryInterval)
		}

		if sleep := interval - time.Since(cycleStart); sleep > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(sleep):
			}
		}
	}
	return nil
}

// executeCycle sends one request and records its outcome. It runs on
// the background context: cancelling a run lets cycles already in
// flight finish under the client timeout instead of aborting them.
func (g *Generator) executeCycle(ep Endpoint, injected bool, req transport.Request) {
	started := time.Now()
	status, err := g.exec.Do(context.Background(), req)
	latency := time.Since(started)

	var out Outcome
	if err != nil {
		out = Outcome{Kind: Classify(err)}
	} else {
		out = Outcome{Status: status}
	}
	g.metrics.Record(ep, injected, out, latency)
}
