// Package config loads and exposes simulation configuration.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable parameter the simulation core reads at
// startup. All fields have embedded defaults; an on-disk override file
// only needs to set the fields it wants to change.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tick      TickConfig      `yaml:"tick"`
	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	World     WorldConfig     `yaml:"world"`
}

// ServerConfig holds network listen settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// TickConfig holds the driver and event-dispatch poll intervals.
type TickConfig struct {
	DriverIntervalMillis     int `yaml:"driver_interval_millis"`
	DispatchIntervalMillis   int `yaml:"dispatch_interval_millis"`
	EffectTickIntervalMillis int `yaml:"effect_tick_interval_millis"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	SQLitePath    string `yaml:"sqlite_path"`
	TelemetryPath string `yaml:"telemetry_path"`
}

// RateLimitConfig holds per-player action budgets.
type RateLimitConfig struct {
	ActionsPerSecond float64 `yaml:"actions_per_second"`
	Burst            int     `yaml:"burst"`
}

// WorldConfig holds chunk/world sizing.
type WorldConfig struct {
	ChunkSizePx int `yaml:"chunk_size_px"`
}

var global *Config

// Init loads configuration from the given path (or embedded defaults
// alone if path is empty) and stores it as the process-wide config.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error — for use at process
// startup where there is no sensible way to continue without config.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load parses the embedded defaults and, if path is non-empty, merges
// an on-disk override on top of them.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}
