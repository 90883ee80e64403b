// Package worker runs queued scheduling jobs and records their outcome.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/teesheet/internal/domain/model"
	"github.com/okian/teesheet/internal/domain/scheduler"
	"github.com/okian/teesheet/pkg/logger"
	"github.com/okian/teesheet/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Runner schedules one job. onDay is called after every committed day.
type Runner interface {
	RunJob(ctx context.Context, job *model.Job, onDay func(scheduler.Day)) (scheduler.Result, error)
}

// Store records job state transitions.
type Store interface {
	Update(ctx context.Context, id string, fn func(*model.Job)) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan *model.Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in hand, if any.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue  Queue
	runner Runner
	store  Store
	name   string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, r Runner, s Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		runner:   r,
		store:    s,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}

	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.String("job_id", job.ID), logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// stop signals the run loop. Safe to call more than once.
func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// processJob runs one job and writes its outcome to the store.
func (w *InMemoryWorker) processJob(ctx context.Context, job *model.Job) error {
	start := time.Now()
	metrics.AddWorkerBusy(1)
	defer func() {
		metrics.AddWorkerBusy(-1)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.store.Update(ctx, job.ID, func(j *model.Job) {
		j.Status = model.JobRunning
		j.StartedAt = start
	}); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("mark job %s running: %w", job.ID, err)
	}

	res, runErr := w.runner.RunJob(ctx, job, func(d scheduler.Day) {
		_ = w.store.Update(ctx, job.ID, func(j *model.Job) {
			j.Progress = d.Number
		})
	})

	finish := func(j *model.Job) {
		j.FinishedAt = time.Now()
		j.State = res.State
		j.Conflicts = res.Conflicts
		if res.Schedule != nil {
			j.Days = res.Schedule.Days()
			j.Objective = res.Schedule.Objective()
			j.Progress = res.Schedule.Len()
		}
		if runErr != nil {
			j.Status = model.JobFailed
			j.Error = runErr.Error()
			return
		}
		j.Status = model.JobDone
	}

	// The run context may already be done; the outcome is still recorded.
	if err := w.store.Update(context.WithoutCancel(ctx), job.ID, finish); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("record job %s: %w", job.ID, err)
	}

	if runErr != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "run_error")
		metrics.RecordErrorByType("run_error", "medium")
		return fmt.Errorf("run job %s: %w", job.ID, runErr)
	}

	w.logger.Debug(ctx, "job finished",
		logger.String("job_id", job.ID),
		logger.String("state", res.State.String()),
		logger.Int("conflicts", len(res.Conflicts)),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	closeOnce sync.Once
	logger    logger.Logger
}

// NewPool creates a new worker pool. A non-positive workerCount selects one
// worker per CPU.
func NewPool(workerCount int, q Queue, r Runner, s Store, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	base := &InMemoryWorker{logger: logger.Nop()}
	for _, opt := range opts {
		opt(base)
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  base.logger.Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append(append([]Option(nil), opts...), WithName("worker-"+strconv.Itoa(i)))
		p.workers[i] = NewInMemoryWorker(q, r, s, workerOpts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue, if it can be closed, and waits for every worker
// to finish the job in hand.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() {
		if closer, ok := p.queue.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				p.logger.Error(ctx, "error closing queue", logger.Error(err))
			}
		}
	})

	for _, w := range p.workers {
		w.stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	return nil
}
