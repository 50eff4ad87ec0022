package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Reload re-reads the config file behind v and returns a validated
// Config. Nothing is applied on error; the caller keeps whatever
// configuration it already has.
func Reload(v *viper.Viper) (*Config, error) {
	// Re-read explicitly: viper's own reload may have failed and
	// left stale values behind.
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg, err := Load(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Watch re-reads the config file whenever it changes on disk and hands
// the result to onChange. A file that fails to parse or validate is
// delivered as an error and the previous configuration stays in effect;
// the watcher keeps running either way.
func Watch(v *viper.Viper, onChange func(*Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := Reload(v)
		if err != nil {
			onChange(nil, fmt.Errorf("reload %s: %w", e.Name, err))
			return
		}
		onChange(cfg, nil)
	})

	v.WatchConfig()
}
