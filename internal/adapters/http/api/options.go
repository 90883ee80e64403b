package api

import "github.com/okian/teesheet/pkg/logger"

const defaultMaxListLimit = 100

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for request logging.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxListLimit caps GET /schedules?limit.
func WithMaxListLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxListLimit = n
		}
	}
}
