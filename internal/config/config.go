package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for a traffic run
type Config struct {
	// Target is the host:port or URL of the API under test
	Target string `mapstructure:"target"`

	// Rate is request cycles per second
	Rate float64 `mapstructure:"rate"`

	// TrafficType labels this run's requests (User-Agent, X-Traffic-Type)
	TrafficType string `mapstructure:"traffic_type"`

	// Duration bounds the run; 0 = run until stopped
	Duration time.Duration `mapstructure:"duration"`

	// Timeout is the per-request budget
	Timeout time.Duration `mapstructure:"timeout"`

	// SummaryInterval is the cadence of periodic summaries; 0 disables them
	SummaryInterval time.Duration `mapstructure:"summary_interval"`

	// WindowedSummaries switches periodic summaries from cumulative totals
	// to per-interval deltas. The final summary is always cumulative.
	WindowedSummaries bool `mapstructure:"windowed_summaries"`

	// Concurrency caps in-flight cycles; 1 = strictly serial
	Concurrency int `mapstructure:"concurrency"`

	// Seed makes runs reproducible (0 = random)
	Seed int64 `mapstructure:"seed"`

	// Weights are relative selection weights per endpoint name.
	// Probability of selection = weight / sum(weights).
	Weights map[string]float64 `mapstructure:"weights"`

	// ErrorRates are per-endpoint fault injection probabilities (0.0-1.0).
	// Endpoints absent from the map are never corrupted.
	ErrorRates map[string]float64 `mapstructure:"error_rates"`

	// Headers are extra headers merged into every request.
	// They win over the generated defaults on key collision.
	Headers map[string]string `mapstructure:"headers"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Rate:            DefaultRate,
		TrafficType:     DefaultTrafficType,
		Duration:        0, // Run until stopped
		Timeout:         DefaultTimeout,
		SummaryInterval: DefaultSummaryInterval,
		Concurrency:     DefaultConcurrency,
		Seed:            0,
		Weights:         DefaultWeights(),
		ErrorRates:      map[string]float64{},
		Headers:         map[string]string{},
	}
}

// Load reads configuration from the given viper instance into a Config,
// starting from the compile-time defaults. A weights or error_rates map
// in the file replaces the default map wholesale; decoding into a
// populated map would merge key by key instead.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Weights = nil
	cfg.ErrorRates = nil
	cfg.Headers = nil

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !v.IsSet("weights") {
		cfg.Weights = DefaultWeights()
	} else if cfg.Weights == nil {
		cfg.Weights = map[string]float64{}
	}
	if cfg.ErrorRates == nil {
		cfg.ErrorRates = map[string]float64{}
	}
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. All violations are
// reported in one pass; a config that fails here must never reach the
// traffic loop.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Target) == "" {
		errs = append(errs, "target is required")
	}
	if c.Rate <= 0 {
		errs = append(errs, "rate must be positive")
	}
	if c.TrafficType == "" {
		errs = append(errs, "traffic_type must not be empty")
	}
	if c.Duration < 0 {
		errs = append(errs, "duration must be non-negative")
	}
	if c.Timeout <= 0 {
		errs = append(errs, "timeout must be positive")
	}
	if c.SummaryInterval < 0 {
		errs = append(errs, "summary_interval must be non-negative")
	}
	if c.Concurrency < 1 {
		errs = append(errs, "concurrency must be >= 1")
	}

	if len(c.Weights) == 0 {
		errs = append(errs, "weights must contain at least one endpoint")
	} else {
		total := 0.0
		for _, name := range sortedKeys(c.Weights) {
			w := c.Weights[name]
			if w < 0 {
				errs = append(errs, fmt.Sprintf("weights.%s must be non-negative", name))
			}
			total += w
		}
		if total <= 0 {
			errs = append(errs, "weights must sum to a positive value")
		}
	}

	for _, name := range sortedKeys(c.ErrorRates) {
		if r := c.ErrorRates[name]; r < 0 || r > 1 {
			errs = append(errs, fmt.Sprintf("error_rates.%s must be between 0.0 and 1.0", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", joinErrors(errs))
	}

	return nil
}

// BaseURL normalizes the target into a base URL: a bare host:port gets
// an http:// scheme, and any trailing slash is stripped.
func (c *Config) BaseURL() string {
	target := strings.TrimSpace(c.Target)
	if target == "" {
		return ""
	}
	if !strings.Contains(target, "://") {
		target = "http://" + target
	}
	return strings.TrimRight(target, "/")
}

// sortedKeys returns map keys in a stable order so validation messages
// don't depend on map iteration order.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// joinErrors joins error messages with newline and bullet points
func joinErrors(errs []string) string {
	result := errs[0]
	for i := 1; i < len(errs); i++ {
		result += "\n  - " + errs[i]
	}
	return result
}
