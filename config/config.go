// Package config holds the testbench configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vanilla/memory"
)

// Config holds the timing, cache and logging parameters of a testbench
// run. Times are in host time units.
type Config struct {
	// Delay is the propagation delay of CPU outputs. Default: 50.
	Delay int `json:"delay"`

	// ClockPeriod is the full clock period. The clock rises at the start
	// of each period and falls halfway through. Default: 200.
	ClockPeriod int `json:"clock_period"`

	// MemoryLatency is the delay between a read request reaching the RAM
	// and the RAM driving the word. Default: 10.
	MemoryLatency int `json:"memory_latency"`

	// ResetClearsFlags makes Reset clear the compare flags. Default: false.
	ResetClearsFlags bool `json:"reset_clears_flags"`

	// MaxCycles bounds a run. Default: 1000000.
	MaxCycles uint64 `json:"max_cycles"`

	// LogLevel is a logrus level name. Default: "info".
	LogLevel string `json:"log_level"`

	// Cache configures the optional cache in front of RAM.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig holds the cache parameters.
type CacheConfig struct {
	Enabled       bool `json:"enabled"`
	SizeWords     int  `json:"size_words"`
	Associativity int  `json:"associativity"`
	BlockWords    int  `json:"block_words"`
}

// Geometry returns the cache geometry for memory.NewCache.
func (c CacheConfig) Geometry() memory.CacheConfig {
	return memory.CacheConfig{
		SizeWords:     c.SizeWords,
		Associativity: c.Associativity,
		BlockWords:    c.BlockWords,
	}
}

// Default returns a Config with default values. The cache is disabled.
func Default() *Config {
	geometry := memory.DefaultCacheConfig()

	return &Config{
		Delay:         50,
		ClockPeriod:   200,
		MemoryLatency: 10,
		MaxCycles:     1_000_000,
		LogLevel:      "info",
		Cache: CacheConfig{
			SizeWords:     geometry.SizeWords,
			Associativity: geometry.Associativity,
			BlockWords:    geometry.BlockWords,
		},
	}
}

// Load loads a Config from a JSON file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Save writes the Config to a JSON file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a runnable testbench.
// A memory read must settle within half a clock period.
func (c *Config) Validate() error {
	if c.Delay <= 0 {
		return fmt.Errorf("delay must be > 0")
	}
	if c.MemoryLatency <= 0 {
		return fmt.Errorf("memory_latency must be > 0")
	}
	if c.ClockPeriod <= 2*(c.Delay+c.MemoryLatency) {
		return fmt.Errorf("clock_period must be > 2*(delay+memory_latency)")
	}
	if c.MaxCycles == 0 {
		return fmt.Errorf("max_cycles must be > 0")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Cache.Enabled {
		if err := validateCache(c.Cache); err != nil {
			return err
		}
	}
	return nil
}

func validateCache(c CacheConfig) error {
	if c.SizeWords <= 0 || c.Associativity <= 0 || c.BlockWords <= 0 {
		return fmt.Errorf("cache size_words, associativity and block_words must be > 0")
	}
	if c.SizeWords%(c.Associativity*c.BlockWords) != 0 {
		return fmt.Errorf("cache size_words must be a multiple of associativity*block_words")
	}
	if c.SizeWords > memory.NumWords {
		return fmt.Errorf("cache size_words must be <= %d", memory.NumWords)
	}
	if memory.NumWords%c.BlockWords != 0 {
		return fmt.Errorf("cache block_words must divide %d", memory.NumWords)
	}
	return nil
}

// Level returns the configured log level, or Info if it does not parse.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
