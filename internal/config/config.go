// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and the environment over those defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text, json or console.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scheduling workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many request ids are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxStoredRuns caps the number of jobs kept in memory.
	MaxStoredRuns int `koanf:"max_stored_runs"`

	// RetryLimit is the number of assignment attempts allowed per day.
	RetryLimit int `koanf:"retry_limit"`

	// SwapPasses bounds the swap repair of each attempt.
	SwapPasses int `koanf:"swap_passes"`

	// Parallelism sets how many attempts of one day run concurrently.
	Parallelism int `koanf:"parallelism"`

	// DefaultSeed is used when a request carries no seed.
	DefaultSeed int64 `koanf:"default_seed"`

	// MaxGolfers rejects oversized rosters at the API boundary.
	MaxGolfers int `koanf:"max_golfers"`

	// MaxDays rejects requests for longer schedules at the API boundary.
	MaxDays int `koanf:"max_days"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		QueueSize:     1_024,
		WorkerCount:   runtime.NumCPU(),
		DedupeSize:    10_000,
		MaxStoredRuns: 1_000,
		RetryLimit:    200,
		SwapPasses:    50,
		Parallelism:   4,
		DefaultSeed:   42,
		MaxGolfers:    1_000,
		MaxDays:       365,
	}
}

// Validate reports the first setting the service cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.MaxStoredRuns <= 0:
		return fmt.Errorf("%w: max_stored_runs must be positive", ErrInvalidConfig)
	case c.RetryLimit <= 0:
		return fmt.Errorf("%w: retry_limit must be positive", ErrInvalidConfig)
	case c.SwapPasses < 0:
		return fmt.Errorf("%w: swap_passes must not be negative", ErrInvalidConfig)
	case c.Parallelism <= 0:
		return fmt.Errorf("%w: parallelism must be positive", ErrInvalidConfig)
	case c.MaxGolfers <= 0:
		return fmt.Errorf("%w: max_golfers must be positive", ErrInvalidConfig)
	case c.MaxDays <= 0:
		return fmt.Errorf("%w: max_days must be positive", ErrInvalidConfig)
	}
	return nil
}
