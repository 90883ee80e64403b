package app

import (
	"github.com/okian/teesheet/internal/config"
	"github.com/okian/teesheet/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig applies every setting of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg == nil {
			return
		}
		for _, opt := range []Option{
			WithWorkerCount(cfg.WorkerCount),
			WithQueueSize(cfg.QueueSize),
			WithDedupeSize(cfg.DedupeSize),
			WithMaxStoredRuns(cfg.MaxStoredRuns),
			WithRetryLimit(cfg.RetryLimit),
			WithSwapPasses(cfg.SwapPasses),
			WithParallelism(cfg.Parallelism),
			WithDefaultSeed(cfg.DefaultSeed),
			WithMaxGolfers(cfg.MaxGolfers),
			WithMaxDays(cfg.MaxDays),
		} {
			opt(s)
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxStoredRuns caps the number of jobs kept in memory.
func WithMaxStoredRuns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxStoredRuns = n
		}
	}
}

// WithRetryLimit sets the per-day attempt budget of every run.
func WithRetryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.runner.retryLimit = n
		}
	}
}

// WithSwapPasses sets the swap repair bound of every attempt.
func WithSwapPasses(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.runner.swapPasses = n
		}
	}
}

// WithParallelism sets how many attempts of one day run concurrently.
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.runner.parallelism = n
		}
	}
}

// WithDefaultSeed sets the seed used when a request carries none.
func WithDefaultSeed(seed int64) Option {
	return func(s *Service) {
		s.defaultSeed = seed
	}
}

// WithMaxGolfers rejects rosters larger than n.
func WithMaxGolfers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxGolfers = n
		}
	}
}

// WithMaxDays rejects requests for more than n days.
func WithMaxDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxDays = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
