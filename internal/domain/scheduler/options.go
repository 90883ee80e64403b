package scheduler

import (
	"github.com/okian/teesheet/internal/domain/assign"
	"github.com/okian/teesheet/pkg/logger"
)

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithSeed sets the base seed every attempt seed is derived from.
func WithSeed(seed int64) Option {
	return func(s *Scheduler) {
		s.seed = seed
	}
}

// WithRetryLimit sets how many assignment attempts a day may spend looking
// for a zero-cost partition.
func WithRetryLimit(limit int) Option {
	return func(s *Scheduler) {
		if limit > 0 {
			s.retryLimit = limit
		}
	}
}

// WithParallelism sets how many attempts of one day run concurrently.
// The outcome does not depend on it.
func WithParallelism(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithAssigner replaces the default assigner.
func WithAssigner(a *assign.Assigner) Option {
	return func(s *Scheduler) {
		if a != nil {
			s.assigner = a
		}
	}
}

// WithObserver registers a callback invoked after every committed day.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}
