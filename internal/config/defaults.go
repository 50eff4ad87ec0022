// Package config contains the traffic generator configuration: the
// compile-time defaults in this file, file/flag loading in config.go,
// canned profiles in profiles.go, and hot reload in watch.go.
package config

import "time"

// =============================================================================
// TRAFFIC DEFAULTS
// =============================================================================

const (
	// DefaultTrafficType labels outgoing requests (User-Agent, X-Traffic-Type)
	DefaultTrafficType = "mixed"

	// DefaultRate is request cycles per second
	DefaultRate = 3.0

	// DefaultTimeout is the per-request budget
	DefaultTimeout = 5 * time.Second

	// DefaultSummaryInterval is how often aggregate summaries are logged (0 disables)
	DefaultSummaryInterval = 30 * time.Second

	// DefaultConcurrency is the in-flight cycle limit (1 = strictly serial)
	DefaultConcurrency = 1
)

// DefaultWeights returns the relative selection weights for the steady
// "good traffic" mix. Weight zero keeps an endpoint in the table but
// never selects it.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"get_root":   10,
		"get_list":   40,
		"get_one":    30,
		"post_order": 20,
		"bogus":      0,
	}
}

// =============================================================================
// TRANSPORT DEFAULTS
// =============================================================================

const (
	// TransportMaxIdleConns is maximum idle connections across all hosts
	TransportMaxIdleConns = 64

	// TransportMaxIdleConnsPerHost is idle connections kept per host.
	// The generator talks to a single target, so this matches the total.
	TransportMaxIdleConnsPerHost = 64

	// TransportMaxConnsPerHost caps concurrent connections per host (0 = unlimited)
	TransportMaxConnsPerHost = 0
)

// =============================================================================
// PROBE DEFAULTS
// =============================================================================

const (
	// ProbeRequests is how many preflight requests the probe command sends
	ProbeRequests = 20

	// ProbeTimeout is the per-request budget during a probe
	ProbeTimeout = 3 * time.Second
)
