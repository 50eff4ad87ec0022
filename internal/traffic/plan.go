package traffic

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/foodme/trafficgen/internal/config"
	"github.com/foodme/trafficgen/internal/transport"
	"github.com/foodme/trafficgen/internal/utils"
)

// Plan is the compiled shape of one traffic mix: the base URL, the
// header template, the positive-weight endpoints with cumulative
// weights, and the per-endpoint injection rates. Plans are immutable
// once built so the generator can swap them atomically mid-run.
type Plan struct {
	baseURL     string
	trafficType string
	header      http.Header

	entries     []planEntry
	totalWeight float64
	errorRates  map[Endpoint]float64
}

type planEntry struct {
	endpoint   Endpoint
	weight     float64
	cumulative float64
}

// NewPlan compiles a validated config into a Plan. Weight and error-rate
// keys must name known endpoints; zero-weight endpoints are dropped here
// so Pick can never return them.
func NewPlan(cfg *config.Config) (*Plan, error) {
	for name := range cfg.Weights {
		if _, ok := ParseEndpoint(name); !ok {
			return nil, fmt.Errorf("unknown endpoint %q in weights (known: %v)", name, Endpoints)
		}
	}
	for name := range cfg.ErrorRates {
		if _, ok := ParseEndpoint(name); !ok {
			return nil, fmt.Errorf("unknown endpoint %q in error_rates (known: %v)", name, Endpoints)
		}
	}

	// Walk the catalog in its fixed order rather than the config map so
	// two runs with the same seed draw identical endpoint sequences.
	entries := make([]planEntry, 0, len(Endpoints))
	totalWeight := 0.0
	for _, ep := range Endpoints {
		weight, ok := cfg.Weights[string(ep)]
		if !ok || weight <= 0 {
			continue
		}
		totalWeight += weight
		entries = append(entries, planEntry{
			endpoint:   ep,
			weight:     weight,
			cumulative: totalWeight,
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no endpoint carries positive weight")
	}

	errorRates := make(map[Endpoint]float64, len(cfg.ErrorRates))
	for name, rate := range cfg.ErrorRates {
		ep, _ := ParseEndpoint(name)
		errorRates[ep] = rate
	}

	header := http.Header{}
	header.Set("User-Agent", fmt.Sprintf("foodme-%s-load", cfg.TrafficType))
	header.Set("X-Traffic-Type", cfg.TrafficType)
	for key, value := range cfg.Headers {
		header.Set(key, value)
	}

	return &Plan{
		baseURL:     cfg.BaseURL(),
		trafficType: cfg.TrafficType,
		header:      header,
		entries:     entries,
		totalWeight: totalWeight,
		errorRates:  errorRates,
	}, nil
}

// Pick selects the endpoint for the next cycle, weighted by the config.
func (p *Plan) Pick(rng *utils.Random) Endpoint {
	r := rng.Float64() * p.totalWeight
	for _, e := range p.entries {
		if r <= e.cumulative {
			return e.endpoint
		}
	}
	// Float rounding can leave r a hair past the last cumulative value.
	return p.entries[len(p.entries)-1].endpoint
}

// ShouldInject decides whether this cycle gets the endpoint's malformed
// variant. Endpoints without a configured rate never inject.
func (p *Plan) ShouldInject(rng *utils.Random, ep Endpoint) bool {
	return rng.Probability(p.errorRates[ep])
}

// Build constructs the request for one pick, applying the plan's header
// template and base URL. Every cycle gets a fresh X-Request-Id so
// target-side logs can be correlated with what the generator sent.
func (p *Plan) Build(rng *utils.Random, ep Endpoint, inject bool) transport.Request {
	req := buildRequest(rng, p.baseURL, p.header, ep, inject)
	hdr := req.Header.Clone()
	hdr.Set("X-Request-Id", uuid.NewString())
	req.Header = hdr
	return req
}

// ErrorRate returns the configured injection rate for an endpoint,
// zero when none is set.
func (p *Plan) ErrorRate(ep Endpoint) float64 {
	return p.errorRates[ep]
}

// BaseURL returns the normalized target the plan sends against.
func (p *Plan) BaseURL() string { return p.baseURL }

// TrafficType returns the label the plan stamps on outgoing traffic.
func (p *Plan) TrafficType() string { return p.trafficType }
