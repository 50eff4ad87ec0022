package traffic

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Summary labels printed by the pacing loop. FINAL appears exactly once
// per run, on shutdown.
const (
	LabelSummary = "SUMMARY"
	LabelFinal   = "FINAL"
)

// Metrics aggregates cycle outcomes for a whole run. Counters only
// grow; windowed reporting subtracts snapshots instead of resetting
// the aggregator, so the FINAL summary always covers everything.
type Metrics struct {
	mu              sync.Mutex
	total           int64
	injected        int64
	statusCounts    map[int]int64
	exceptionCounts map[ExceptionKind]int64
	endpointCounts  map[Endpoint]int64
	hist            *hdrhistogram.Histogram
}

// NewMetrics creates an empty aggregator.
func NewMetrics() *Metrics {
	return &Metrics{
		statusCounts:    make(map[int]int64),
		exceptionCounts: make(map[ExceptionKind]int64),
		endpointCounts:  make(map[Endpoint]int64),
		// 1us to 10min, 3 significant figures
		hist: hdrhistogram.New(1, int64(10*time.Minute/time.Microsecond), 3),
	}
}

// Record adds one completed cycle. Only cycles that produced a status
// line carry a latency sample.
func (m *Metrics) Record(ep Endpoint, injected bool, o Outcome, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.endpointCounts[ep]++
	if injected {
		m.injected++
	}
	if o.IsStatus() {
		m.statusCounts[o.Status]++
		_ = m.hist.RecordValue(latency.Microseconds())
	} else {
		m.exceptionCounts[o.Kind]++
	}
}

// Snapshot is a point-in-time copy of the aggregated counters. It holds
// no wall-clock state: two snapshots taken with no Record between them
// are identical.
type Snapshot struct {
	Total    int64
	TwoXX    int64
	NonTwoXX int64
	Errors   int64
	Injected int64

	StatusCounts    map[int]int64
	ExceptionCounts map[ExceptionKind]int64
	EndpointCounts  map[Endpoint]int64

	LatencyCount int64
	LatencyMean  time.Duration
	LatencyP50   time.Duration
	LatencyP95   time.Duration
	LatencyP99   time.Duration
	LatencyMax   time.Duration
}

// Snapshot returns the current counters. The maps are copies, safe to
// hold across further Records.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Total:           m.total,
		Injected:        m.injected,
		StatusCounts:    make(map[int]int64, len(m.statusCounts)),
		ExceptionCounts: make(map[ExceptionKind]int64, len(m.exceptionCounts)),
		EndpointCounts:  make(map[Endpoint]int64, len(m.endpointCounts)),
	}
	for code, n := range m.statusCounts {
		snap.StatusCounts[code] = n
		if code >= 200 && code < 300 {
			snap.TwoXX += n
		} else {
			snap.NonTwoXX += n
		}
	}
	for kind, n := range m.exceptionCounts {
		snap.ExceptionCounts[kind] = n
		snap.Errors += n
	}
	for ep, n := range m.endpointCounts {
		snap.EndpointCounts[ep] = n
	}
	if count := m.hist.TotalCount(); count > 0 {
		snap.LatencyCount = count
		snap.LatencyMean = time.Duration(m.hist.Mean() * float64(time.Microsecond))
		snap.LatencyP50 = time.Duration(m.hist.ValueAtQuantile(50)) * time.Microsecond
		snap.LatencyP95 = time.Duration(m.hist.ValueAtQuantile(95)) * time.Microsecond
		snap.LatencyP99 = time.Duration(m.hist.ValueAtQuantile(99)) * time.Microsecond
		snap.LatencyMax = time.Duration(m.hist.Max()) * time.Microsecond
	}
	return snap
}

// Delta returns the change from prev to s. Count fields and maps
// subtract; latency fields keep s's cumulative values since histogram
// state cannot be unwound.
func (s Snapshot) Delta(prev Snapshot) Snapshot {
	d := Snapshot{
		Total:    s.Total - prev.Total,
		TwoXX:    s.TwoXX - prev.TwoXX,
		NonTwoXX: s.NonTwoXX - prev.NonTwoXX,
		Errors:   s.Errors - prev.Errors,
		Injected: s.Injected - prev.Injected,

		StatusCounts:    make(map[int]int64),
		ExceptionCounts: make(map[ExceptionKind]int64),
		EndpointCounts:  make(map[Endpoint]int64),

		LatencyCount: s.LatencyCount,
		LatencyMean:  s.LatencyMean,
		LatencyP50:   s.LatencyP50,
		LatencyP95:   s.LatencyP95,
		LatencyP99:   s.LatencyP99,
		LatencyMax:   s.LatencyMax,
	}
	for code, n := range s.StatusCounts {
		if diff := n - prev.StatusCounts[code]; diff > 0 {
			d.StatusCounts[code] = diff
		}
	}
	for kind, n := range s.ExceptionCounts {
		if diff := n - prev.ExceptionCounts[kind]; diff > 0 {
			d.ExceptionCounts[kind] = diff
		}
	}
	for ep, n := range s.EndpointCounts {
		if diff := n - prev.EndpointCounts[ep]; diff > 0 {
			d.EndpointCounts[ep] = diff
		}
	}
	return d
}

// StatusCount pairs a status code with its occurrence count.
type StatusCount struct {
	Code  int
	Count int64
}

// KindCount pairs an exception kind with its occurrence count.
type KindCount struct {
	Kind  ExceptionKind
	Count int64
}

// TopStatuses returns up to n status codes ordered by count descending,
// ties broken by code ascending so output is stable across runs.
func (s Snapshot) TopStatuses(n int) []StatusCount {
	out := make([]StatusCount, 0, len(s.StatusCounts))
	for code, count := range s.StatusCounts {
		out = append(out, StatusCount{Code: code, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopExceptions returns up to n exception kinds ordered by count
// descending, ties broken by kind ascending.
func (s Snapshot) TopExceptions(n int) []KindCount {
	out := make([]KindCount, 0, len(s.ExceptionCounts))
	for kind, count := range s.ExceptionCounts {
		out = append(out, KindCount{Kind: kind, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// FormatLine renders the one-line periodic summary. The status and
// exception breakdowns are capped at the top 5 and top 3 entries, and
// empty sections are omitted entirely.
func (s Snapshot) FormatLine(label string, elapsed time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1fs | total=%d 2xx=%d non2xx=%d errors=%d",
		label, elapsed.Seconds(), s.Total, s.TwoXX, s.NonTwoXX, s.Errors)

	if top := s.TopStatuses(5); len(top) > 0 {
		parts := make([]string, 0, len(top))
		for _, sc := range top {
			parts = append(parts, fmt.Sprintf("%d:%d", sc.Code, sc.Count))
		}
		fmt.Fprintf(&b, " | status=[%s]", strings.Join(parts, ", "))
	}
	if top := s.TopExceptions(3); len(top) > 0 {
		parts := make([]string, 0, len(top))
		for _, kc := range top {
			parts = append(parts, fmt.Sprintf("%s:%d", kc.Kind, kc.Count))
		}
		fmt.Fprintf(&b, " | exceptions=[%s]", strings.Join(parts, ", "))
	}
	if s.LatencyCount > 0 {
		fmt.Fprintf(&b, " | p95=%s", s.LatencyP95.Round(time.Microsecond))
	}
	return b.String()
}
