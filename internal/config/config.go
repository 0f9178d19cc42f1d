// Package config loads the application configuration from YAML with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Turn      TurnConfig      `mapstructure:"turn"`
	Scripts   ScriptsConfig   `mapstructure:"scripts"`
	Autoplay  AutoplayConfig  `mapstructure:"autoplay"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// TurnConfig tunes the turn machinery.
type TurnConfig struct {
	HistoryCap          int           `mapstructure:"history_cap"`
	MismatchLogInterval time.Duration `mapstructure:"mismatch_log_interval"`
}

// ScriptsConfig points at the Lua strategy scripts.
type ScriptsConfig struct {
	Dir       string `mapstructure:"dir"`
	HotReload bool   `mapstructure:"hot_reload"`
}

// AutoplayConfig drives the headless automated runner.
type AutoplayConfig struct {
	Turns int   `mapstructure:"turns"`
	Seed  int64 `mapstructure:"seed"`
}

// TelemetryConfig toggles trace export.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from the given file, falling back to defaults
// for anything unset. Environment variables prefixed HOLLOWDEEP_ override
// file values. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("turn.history_cap", 64)
	v.SetDefault("turn.mismatch_log_interval", 5*time.Second)
	v.SetDefault("scripts.dir", "scripts")
	v.SetDefault("scripts.hot_reload", false)
	v.SetDefault("autoplay.turns", 100)
	v.SetDefault("autoplay.seed", 0)
	v.SetDefault("telemetry.enabled", false)

	v.SetEnvPrefix("HOLLOWDEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
