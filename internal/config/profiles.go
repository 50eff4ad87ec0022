package config

import "time"

// GoodProfile returns the steady background-traffic preset: a modest
// rate, a realistic request mix, and no fault injection. Runs until
// stopped.
func GoodProfile() *Config {
	cfg := DefaultConfig()
	cfg.TrafficType = "good"
	cfg.Rate = 3
	cfg.SummaryInterval = 60 * time.Second
	cfg.Weights = map[string]float64{
		"get_root":   10,
		"get_list":   40,
		"get_one":    30,
		"post_order": 20,
		"bogus":      0,
	}
	cfg.ErrorRates = map[string]float64{}
	return cfg
}

// ChaosProfile returns the alert-exercising preset: high rate, a mix
// skewed toward writes and bogus paths, and aggressive fault injection.
// Bounded to five minutes so a forgotten run doesn't hammer the target
// all day.
func ChaosProfile() *Config {
	cfg := DefaultConfig()
	cfg.TrafficType = "chaos"
	cfg.Rate = 15
	cfg.Duration = 5 * time.Minute
	cfg.SummaryInterval = 30 * time.Second
	cfg.Weights = map[string]float64{
		"get_root":   5,
		"get_list":   15,
		"get_one":    20,
		"post_order": 40,
		"bogus":      20,
	}
	cfg.ErrorRates = map[string]float64{
		"post_order": 0.5,
		"get_one":    0.3,
		"bogus":      1.0,
	}
	return cfg
}
