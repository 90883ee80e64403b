// Package scheduler drives day-by-day group assignment for a whole roster.
//
// Days are scheduled strictly in order because the pair history after day i
// is an input of day i+1. Within a day, assignment attempts may run in
// parallel against a frozen snapshot of the history; only the scheduler ever
// writes the history, and only when it commits a day.
//
// A run never fails because the roster is unsatisfiable. When no attempt
// within the retry limit avoids every repeat, the cheapest attempt is
// committed and each repeated pair is reported as a Conflict.
package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/teesheet/internal/domain/assign"
	"github.com/okian/teesheet/internal/domain/history"
	"github.com/okian/teesheet/internal/domain/roster"
	"github.com/okian/teesheet/pkg/logger"
	"github.com/okian/teesheet/pkg/metrics"
)

// Default scheduler configuration constants.
const (
	defaultRetryLimit = 200
	defaultSeed       = 42
)

// Result is what a run produces.
type Result struct {
	Schedule  *Schedule
	Conflicts []Conflict
	State     State
	Elapsed   time.Duration
}

// Observer receives each day right after it is committed. It runs on the
// scheduling goroutine and must not block.
type Observer func(ctx context.Context, day Day, conflicts []Conflict)

// Scheduler owns the pair history and the schedule of one run.
type Scheduler struct {
	mu    sync.RWMutex
	state State
	day   int

	roster   *roster.Roster
	history  *history.History
	schedule *Schedule
	assigner *assign.Assigner

	seed        int64
	retryLimit  int
	parallelism int

	observers []Observer
	logger    logger.Logger
}

// New creates a Scheduler for r. A Scheduler runs once.
func New(r *roster.Roster, opts ...Option) (*Scheduler, error) {
	if r == nil {
		return nil, ErrNilRoster
	}
	s := &Scheduler{
		state:       Pending,
		roster:      r,
		history:     history.New(r.Len()),
		schedule:    &Schedule{},
		assigner:    assign.New(),
		seed:        defaultSeed,
		retryLimit:  defaultRetryLimit,
		parallelism: runtime.NumCPU(),
		logger:      logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Day returns the day being scheduled, or the last committed day once the run
// is over. Zero before the run starts.
func (s *Scheduler) Day() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day
}

// HasMet reports whether two golfers shared a group on a committed day.
func (s *Scheduler) HasMet(a, b string) bool {
	ia, okA := s.roster.Index(a)
	ib, okB := s.roster.Index(b)
	if !okA || !okB {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.HasMet(ia, ib)
}

// Run schedules every day of the roster. The returned error is non-nil only
// when ctx is cancelled (the partial result is still returned) or when the
// scheduler has already run.
func (s *Scheduler) Run(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.state != Pending {
		s.mu.Unlock()
		return Result{}, ErrAlreadyRun
	}
	s.state = Scheduling
	s.mu.Unlock()

	start := time.Now()
	var conflicts []Conflict

	s.logger.Debug(ctx, "scheduling started",
		logger.Int("golfers", s.roster.Len()),
		logger.Int("groups", s.roster.GroupCount()),
		logger.Int("days", s.roster.Days()),
		logger.Int64("seed", s.seed),
	)

	for d := 1; d <= s.roster.Days(); d++ {
		s.mu.Lock()
		s.day = d
		s.mu.Unlock()

		best, attempts, err := s.searchDay(ctx, d)
		if err != nil {
			s.finish(Aborted)
			s.logger.Warn(ctx, "scheduling aborted", logger.Int("day", d), logger.Error(err))
			return s.result(conflicts, start), fmt.Errorf("schedule day %d: %w", d, err)
		}

		committed, dayConflicts := s.commit(d, best, attempts)
		conflicts = append(conflicts, dayConflicts...)
		for _, o := range s.observers {
			o(ctx, committed.clone(), append([]Conflict(nil), dayConflicts...))
		}
		metrics.RecordDay(best.Cost, attempts)
		metrics.RecordConflicts(len(dayConflicts))

		if best.Cost > 0 {
			s.logger.Warn(ctx, "day committed with repeated pairs",
				logger.Int("day", d),
				logger.Int("cost", best.Cost),
				logger.Int("attempts", attempts),
			)
		} else {
			s.logger.Debug(ctx, "day committed",
				logger.Int("day", d),
				logger.Int("attempts", attempts),
			)
		}
	}

	final := Complete
	if len(conflicts) > 0 {
		final = PartialFailure
	}
	s.finish(final)

	res := s.result(conflicts, start)
	metrics.RecordRun(final.String(), float64(res.Elapsed.Milliseconds()))
	s.logger.Info(ctx, "scheduling finished",
		logger.String("state", final.String()),
		logger.Int("objective", res.Schedule.Objective()),
		logger.Int("conflicts", len(conflicts)),
		logger.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// searchDay runs up to retryLimit attempts in batches of parallelism and
// returns the first zero-cost attempt in attempt order, or the cheapest one
// (earliest on ties). The second return value is the number of attempts the
// chosen outcome accounts for.
func (s *Scheduler) searchDay(ctx context.Context, day int) (assign.Candidate, int, error) {
	snapshot := s.history.Snapshot()
	var best assign.Candidate
	found := false

	for next := 0; next < s.retryLimit; next += s.parallelism {
		if err := ctx.Err(); err != nil {
			return assign.Candidate{}, 0, err
		}

		batch := min(s.parallelism, s.retryLimit-next)
		candidates := make([]assign.Candidate, batch)
		var g errgroup.Group
		for i := 0; i < batch; i++ {
			i := i
			attempt := next + i
			g.Go(func() error {
				candidates[i] = s.assigner.Assign(s.roster, snapshot, assign.DeriveSeed(s.seed, day, attempt))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return assign.Candidate{}, 0, err
		}

		for i, c := range candidates {
			if !found || c.Cost < best.Cost {
				best, found = c, true
			}
			if c.Perfect() {
				return best, next + i + 1, nil
			}
		}
	}
	return best, s.retryLimit, nil
}

// commit records the conflicts of c, folds its pairs into the history and
// appends the day to the schedule.
func (s *Scheduler) commit(day int, c assign.Candidate, attempts int) (Day, []Conflict) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conflicts []Conflict
	groups := make([][]string, len(c.Groups))
	for gi, g := range c.Groups {
		for i := 0; i < len(g); i++ {
			for j := i + 1; j < len(g); j++ {
				prior, met := s.history.FirstMet(g[i], g[j])
				if !met {
					continue
				}
				conflicts = append(conflicts, Conflict{
					Day:      day,
					Pair:     Pair{A: s.roster.ID(g[i]), B: s.roster.ID(g[j])},
					PriorDay: prior,
				})
			}
		}
		groups[gi] = s.roster.IDs(g)
	}

	for _, g := range c.Groups {
		s.history.Commit(day, g)
	}
	d := Day{
		Number:   day,
		Groups:   groups,
		Cost:     c.Cost,
		Attempts: attempts,
		Seed:     c.Seed,
	}
	s.schedule.commit(d)
	return d, conflicts
}

func (s *Scheduler) finish(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Scheduler) result(conflicts []Conflict, start time.Time) Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Result{
		Schedule:  &Schedule{days: s.schedule.Days()},
		Conflicts: conflicts,
		State:     s.state,
		Elapsed:   time.Since(start),
	}
}
