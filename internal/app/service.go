// Package app wires the scheduling domain to the queue, the worker pool and
// the run store, and implements the dependencies of the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/teesheet/internal/adapters/mq/queue"
	workerpool "github.com/okian/teesheet/internal/adapters/mq/worker"
	"github.com/okian/teesheet/internal/adapters/repository"
	"github.com/okian/teesheet/internal/domain/dedupe"
	"github.com/okian/teesheet/internal/domain/model"
	"github.com/okian/teesheet/internal/domain/roster"
	"github.com/okian/teesheet/pkg/logger"
	"github.com/okian/teesheet/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize     = 1024
	defaultDedupeSize    = 10_000
	defaultMaxStoredRuns = 1000
	defaultRetryLimit    = 200
	defaultSwapPasses    = 50
	defaultParallelism   = 4
	defaultSeed          = 42
	defaultMaxGolfers    = 1000
	defaultMaxDays       = 365
)

// SubmitResult tells the caller which job a submission maps to.
type SubmitResult struct {
	JobID     string
	Status    model.JobStatus
	Duplicate bool
}

// Service accepts scheduling requests and runs them asynchronously.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	index  dedupe.Index
	queue  jobqueue.Queue
	pool   *workerpool.Pool
	runner *jobRunner

	workerCount   int
	queueSize     int
	dedupeSize    int
	maxStoredRuns int
	defaultSeed   int64
	maxGolfers    int
	maxDays       int

	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     defaultQueueSize,
		dedupeSize:    defaultDedupeSize,
		maxStoredRuns: defaultMaxStoredRuns,
		defaultSeed:   defaultSeed,
		maxGolfers:    defaultMaxGolfers,
		maxDays:       defaultMaxDays,
		runner: &jobRunner{
			retryLimit:  defaultRetryLimit,
			swapPasses:  defaultSwapPasses,
			parallelism: defaultParallelism,
		},
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.runner.logger = s.logger

	return s
}

// Start initializes and starts the service components. Runs in flight are
// cancelled by Stop, not by ctx.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting scheduling service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.store = repository.NewMemoryStore(runCtx, repository.WithMaxRuns(s.maxStoredRuns))
	s.index = dedupe.NewInMemoryIndex(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.runner, s.store, workerpool.WithLogger(s.logger))
	s.pool.Start(runCtx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "scheduling service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("maxStoredRuns", s.maxStoredRuns),
	)
	return nil
}

// Stop shuts the service down. Running jobs are cancelled and recorded as
// failed; jobs still queued stay queued.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scheduling service...")

	s.cancel()
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "scheduling service stopped")
}

// Submit validates req and queues it. A request id seen before returns the
// job it created the first time. Roster problems come back as
// *roster.ConfigError; a full queue or store as ErrBackpressure.
func (s *Service) Submit(ctx context.Context, req model.Request) (SubmitResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return SubmitResult{}, ErrNotStarted
	}

	if len(req.Golfers) > s.maxGolfers {
		metrics.RecordJobRejected("invalid")
		return SubmitResult{}, &roster.ConfigError{
			Field:  "golfers",
			Reason: fmt.Sprintf("%d golfers exceeds the limit of %d", len(req.Golfers), s.maxGolfers),
		}
	}
	if req.Days > s.maxDays {
		metrics.RecordJobRejected("invalid")
		return SubmitResult{}, &roster.ConfigError{
			Field:  "days",
			Reason: fmt.Sprintf("%d days exceeds the limit of %d", req.Days, s.maxDays),
		}
	}
	if _, err := buildRoster(req); err != nil {
		metrics.RecordJobRejected("invalid")
		return SubmitResult{}, err
	}

	jobID := uuid.NewString()
	if req.RequestID != "" {
		if existing, dup := s.index.Claim(ctx, req.RequestID, jobID); dup {
			metrics.RecordJobDuplicate()
			res := SubmitResult{JobID: existing, Duplicate: true}
			if j, err := s.store.Get(ctx, existing); err == nil {
				res.Status = j.Status
			}
			return res, nil
		}
	}

	seed := s.defaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}
	job := &model.Job{
		ID:        jobID,
		Request:   req,
		Seed:      seed,
		Status:    model.JobQueued,
		CreatedAt: time.Now(),
	}

	if err := s.store.Put(ctx, job); err != nil {
		s.release(ctx, req.RequestID)
		if errors.Is(err, repository.ErrFull) {
			metrics.RecordJobRejected("store_full")
			return SubmitResult{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return SubmitResult{}, err
	}

	if err := s.queue.Enqueue(ctx, job.Clone()); err != nil {
		s.store.Delete(ctx, jobID)
		s.release(ctx, req.RequestID)
		metrics.RecordJobRejected("queue_full")
		s.logger.Warn(ctx, "job rejected", logger.String("request_id", req.RequestID), logger.Error(err))
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
	}

	metrics.RecordJobSubmitted()
	s.logger.Debug(ctx, "job queued",
		logger.String("job_id", jobID),
		logger.String("request_id", req.RequestID),
		logger.Int("golfers", len(req.Golfers)),
		logger.Int64("seed", seed),
	)
	return SubmitResult{JobID: jobID, Status: model.JobQueued}, nil
}

func (s *Service) release(ctx context.Context, requestID string) {
	if requestID != "" {
		s.index.Release(ctx, requestID)
	}
}

// Get returns a copy of a job.
func (s *Service) Get(ctx context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.Get(ctx, id)
}

// List returns up to limit jobs, newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status model.JobStatus, limit int) ([]*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.List(ctx, status, limit), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"maxStoredRuns": s.maxStoredRuns,
		"maxDays":       s.maxDays,
		"retryLimit":    s.runner.retryLimit,
		"parallelism":   s.runner.parallelism,
	}

	if s.started {
		ctx := context.Background()
		queueLen := s.queue.Len()
		stored := s.store.Count(ctx)
		byStatus := map[model.JobStatus]int{}
		for _, j := range s.store.List(ctx, "", 0) {
			byStatus[j.Status]++
		}

		stats["queueLength"] = queueLen
		stats["storedRuns"] = stored
		stats["requestIds"] = s.index.Size()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["jobs"] = map[string]int{
			string(model.JobQueued):  byStatus[model.JobQueued],
			string(model.JobRunning): byStatus[model.JobRunning],
			string(model.JobDone):    byStatus[model.JobDone],
			string(model.JobFailed):  byStatus[model.JobFailed],
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoredRuns(stored)
	}

	return stats
}
