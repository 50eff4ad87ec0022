package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Target = "localhost:3000"
	return cfg
}

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with target should validate, got: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing target",
			mutate:  func(c *Config) { c.Target = "" },
			wantErr: "target is required",
		},
		{
			name:    "zero rate",
			mutate:  func(c *Config) { c.Rate = 0 },
			wantErr: "rate must be positive",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.Rate = -2 },
			wantErr: "rate must be positive",
		},
		{
			name:    "empty traffic type",
			mutate:  func(c *Config) { c.TrafficType = "" },
			wantErr: "traffic_type must not be empty",
		},
		{
			name:    "negative duration",
			mutate:  func(c *Config) { c.Duration = -time.Second },
			wantErr: "duration must be non-negative",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: "timeout must be positive",
		},
		{
			name:    "negative summary interval",
			mutate:  func(c *Config) { c.SummaryInterval = -time.Second },
			wantErr: "summary_interval must be non-negative",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: "concurrency must be >= 1",
		},
		{
			name:    "empty weights",
			mutate:  func(c *Config) { c.Weights = map[string]float64{} },
			wantErr: "weights must contain at least one endpoint",
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.Weights = map[string]float64{"get_root": -1} },
			wantErr: "weights.get_root must be non-negative",
		},
		{
			name:    "all-zero weights",
			mutate:  func(c *Config) { c.Weights = map[string]float64{"get_root": 0, "bogus": 0} },
			wantErr: "weights must sum to a positive value",
		},
		{
			name:    "error rate above one",
			mutate:  func(c *Config) { c.ErrorRates = map[string]float64{"post_order": 1.5} },
			wantErr: "error_rates.post_order must be between 0.0 and 1.0",
		},
		{
			name:    "negative error rate",
			mutate:  func(c *Config) { c.ErrorRates = map[string]float64{"get_one": -0.1} },
			wantErr: "error_rates.get_one must be between 0.0 and 1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Target = ""
	cfg.Rate = 0
	cfg.Timeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{"target is required", "rate must be positive", "timeout must be positive"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error missing %q: %v", want, err)
		}
	}
}

func TestConfig_BaseURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"bare host:port", "localhost:3000", "http://localhost:3000"},
		{"bare host", "foodme.internal", "http://foodme.internal"},
		{"explicit http", "http://localhost:3000", "http://localhost:3000"},
		{"explicit https", "https://demo.example.com", "https://demo.example.com"},
		{"trailing slash stripped", "http://localhost:3000/", "http://localhost:3000"},
		{"multiple trailing slashes", "localhost:3000///", "http://localhost:3000"},
		{"surrounding whitespace", "  localhost:3000 ", "http://localhost:3000"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Target: tt.target}
			if got := cfg.BaseURL(); got != tt.want {
				t.Errorf("BaseURL(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestGoodProfile(t *testing.T) {
	cfg := GoodProfile()
	cfg.Target = "localhost:3000"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("good profile should validate: %v", err)
	}
	if cfg.TrafficType != "good" {
		t.Errorf("traffic type = %q, want good", cfg.TrafficType)
	}
	if cfg.Rate != 3 {
		t.Errorf("rate = %v, want 3", cfg.Rate)
	}
	if cfg.Duration != 0 {
		t.Errorf("duration = %v, want 0 (run until stopped)", cfg.Duration)
	}
	if len(cfg.ErrorRates) != 0 {
		t.Errorf("good profile must not inject faults, got %v", cfg.ErrorRates)
	}
	if cfg.Weights["bogus"] != 0 {
		t.Errorf("good profile bogus weight = %v, want 0", cfg.Weights["bogus"])
	}
}

func TestChaosProfile(t *testing.T) {
	cfg := ChaosProfile()
	cfg.Target = "localhost:3000"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("chaos profile should validate: %v", err)
	}
	if cfg.TrafficType != "chaos" {
		t.Errorf("traffic type = %q, want chaos", cfg.TrafficType)
	}
	if cfg.Rate != 15 {
		t.Errorf("rate = %v, want 15", cfg.Rate)
	}
	if cfg.Duration != 5*time.Minute {
		t.Errorf("duration = %v, want 5m", cfg.Duration)
	}
	if cfg.ErrorRates["bogus"] != 1.0 {
		t.Errorf("chaos bogus error rate = %v, want 1.0", cfg.ErrorRates["bogus"])
	}
	if cfg.Weights["post_order"] != 40 {
		t.Errorf("chaos post_order weight = %v, want 40", cfg.Weights["post_order"])
	}
}

func TestLoad_FromYAML(t *testing.T) {
	yaml := `
target: demo.example.com:8080
rate: 7.5
traffic_type: canary
timeout: 2s
summary_interval: 45s
windowed_summaries: true
concurrency: 4
seed: 99
weights:
  get_one: 60
  post_order: 40
error_rates:
  post_order: 0.25
headers:
  X-Team: sre
`

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(yaml)); err != nil {
		t.Fatalf("reading yaml: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}

	if cfg.Target != "demo.example.com:8080" {
		t.Errorf("target = %q", cfg.Target)
	}
	if cfg.Rate != 7.5 {
		t.Errorf("rate = %v, want 7.5", cfg.Rate)
	}
	if cfg.TrafficType != "canary" {
		t.Errorf("traffic_type = %q, want canary", cfg.TrafficType)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("timeout = %v, want 2s", cfg.Timeout)
	}
	if cfg.SummaryInterval != 45*time.Second {
		t.Errorf("summary_interval = %v, want 45s", cfg.SummaryInterval)
	}
	if !cfg.WindowedSummaries {
		t.Error("windowed_summaries should be true")
	}
	if cfg.Concurrency != 4 {
		t.Errorf("concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.Seed != 99 {
		t.Errorf("seed = %d, want 99", cfg.Seed)
	}
	if cfg.Weights["get_one"] != 60 || cfg.Weights["post_order"] != 40 {
		t.Errorf("weights = %v", cfg.Weights)
	}
	if len(cfg.Weights) != 2 {
		t.Errorf("file weights must replace defaults, got %v", cfg.Weights)
	}
	if cfg.ErrorRates["post_order"] != 0.25 {
		t.Errorf("error_rates = %v", cfg.ErrorRates)
	}
	if cfg.Headers["X-Team"] != "sre" {
		t.Errorf("headers = %v", cfg.Headers)
	}
}

func TestLoad_DefaultsPreservedWhenFileOmitsKeys(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString("target: localhost:3000\n")); err != nil {
		t.Fatalf("reading yaml: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Rate != DefaultRate {
		t.Errorf("rate = %v, want default %v", cfg.Rate, DefaultRate)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want default %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.SummaryInterval != DefaultSummaryInterval {
		t.Errorf("summary_interval = %v, want default %v", cfg.SummaryInterval, DefaultSummaryInterval)
	}
	if cfg.TrafficType != DefaultTrafficType {
		t.Errorf("traffic_type = %q, want default %q", cfg.TrafficType, DefaultTrafficType)
	}
	if len(cfg.Weights) == 0 {
		t.Error("default weights should be preserved")
	}
}

func TestLoad_ExplicitEmptyWeightsNotReplaced(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString("target: localhost:3000\nweights: {}\n")); err != nil {
		t.Fatalf("reading yaml: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// An explicitly empty weight table is a user mistake, not a request
	// for the defaults. Validation must reject it.
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for explicitly empty weights")
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traffic.yaml")
	write := func(contents string) {
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("writing config file: %v", err)
		}
	}
	write("target: localhost:3000\nrate: 5\n")

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("initial read: %v", err)
	}

	cfg, err := Reload(v)
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if cfg.Rate != 5 {
		t.Errorf("rate = %v, want 5", cfg.Rate)
	}

	// Edits are picked up on the next Reload
	write("target: localhost:3000\nrate: 12\n")
	cfg, err = Reload(v)
	if err != nil {
		t.Fatalf("Reload after edit: %v", err)
	}
	if cfg.Rate != 12 {
		t.Errorf("rate after edit = %v, want 12", cfg.Rate)
	}

	// A file that no longer validates is reported, not applied
	write("target: localhost:3000\nrate: -1\n")
	if _, err := Reload(v); err == nil {
		t.Error("expected error for invalid reloaded config")
	}

	// Broken syntax is reported too
	write("target: [unclosed\n")
	if _, err := Reload(v); err == nil {
		t.Error("expected error for unparseable config file")
	}
}
