package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/teesheet/internal/domain/model"
	"github.com/okian/teesheet/pkg/metrics"
)

const (
	defaultMaxRuns               = 1000
	defaultMetricsUpdateInterval = 5 * time.Second
)

// MemoryStore is a bounded in-memory Store.
type MemoryStore struct {
	mu    sync.RWMutex
	jobs  map[string]*model.Job
	order []string // insertion order, oldest first

	maxRuns               int
	metricsUpdateInterval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a MemoryStore and starts its metrics updater, which
// runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		jobs:                  make(map[string]*model.Job),
		maxRuns:               defaultMaxRuns,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stop:                  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) Put(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, job.ID)
	}
	if len(s.jobs) >= s.maxRuns && !s.evictFinished() {
		return ErrFull
	}

	s.jobs[job.ID] = job.Clone()
	s.order = append(s.order, job.ID)
	metrics.UpdateStoredRuns(len(s.jobs))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return j.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*model.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fn(j)
	j.ID = id
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return
	}
	delete(s.jobs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.UpdateStoredRuns(len(s.jobs))
}

func (s *MemoryStore) List(_ context.Context, status model.JobStatus, limit int) []*model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Job
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		j := s.jobs[s.order[i]]
		if status != "" && j.Status != status {
			continue
		}
		out = append(out, j.Clone())
	}
	return out
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// evictFinished drops the oldest finished job. Must be called with s.mu held.
func (s *MemoryStore) evictFinished() bool {
	for i, id := range s.order {
		if !s.jobs[id].Status.Finished() {
			continue
		}
		delete(s.jobs, id)
		s.order = append(s.order[:i], s.order[i+1:]...)
		return true
	}
	return false
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(s.metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			metrics.UpdateStoredRuns(s.Count(ctx))
		}
	}
}
