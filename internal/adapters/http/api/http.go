// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/teesheet/internal/app"
	"github.com/okian/teesheet/internal/domain/model"
	"github.com/okian/teesheet/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit validates and queues a scheduling request.
	Submit(ctx context.Context, req model.Request) (app.SubmitResult, error)

	// Get and List expose jobs and their outcomes.
	Get(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, status model.JobStatus, limit int) ([]*model.Job, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	schedulesHandler *SchedulesHandler

	maxListLimit int
	logger       logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		maxListLimit:  defaultMaxListLimit,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.schedulesHandler = NewSchedulesHandler(deps, s.maxListLimit)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz", s.logger))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats", s.logger))
	mux.HandleFunc("/schedules", MetricsMiddleware(s.schedulesHandler.HandleCollection, "schedules", s.logger))
	mux.HandleFunc("/schedules/", MetricsMiddleware(s.schedulesHandler.HandleGetSchedule, "schedule", s.logger))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
