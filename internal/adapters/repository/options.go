package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxRuns caps how many jobs are retained. Once reached, the oldest
// finished job is evicted to make room.
func WithMaxRuns(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxRuns = n
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
