package app

import (
	"context"

	"github.com/okian/teesheet/internal/domain/assign"
	"github.com/okian/teesheet/internal/domain/model"
	"github.com/okian/teesheet/internal/domain/roster"
	"github.com/okian/teesheet/internal/domain/scheduler"
	"github.com/okian/teesheet/pkg/logger"
)

// jobRunner builds a roster and a scheduler for each job.
type jobRunner struct {
	retryLimit  int
	swapPasses  int
	parallelism int
	logger      logger.Logger
}

func buildRoster(req model.Request) (*roster.Roster, error) {
	var opts []roster.Option
	if req.Strict {
		opts = append(opts, roster.WithStrictSizing())
	}
	return roster.New(req.Golfers, req.GroupSize, req.Days, opts...)
}

func (r *jobRunner) RunJob(ctx context.Context, job *model.Job, onDay func(scheduler.Day)) (scheduler.Result, error) {
	ros, err := buildRoster(job.Request)
	if err != nil {
		return scheduler.Result{}, err
	}

	s, err := scheduler.New(ros,
		scheduler.WithSeed(job.Seed),
		scheduler.WithRetryLimit(r.retryLimit),
		scheduler.WithParallelism(r.parallelism),
		scheduler.WithAssigner(assign.New(assign.WithSwapPasses(r.swapPasses))),
		scheduler.WithLogger(r.logger.Named("job-"+job.ID)),
		scheduler.WithObserver(func(_ context.Context, d scheduler.Day, _ []scheduler.Conflict) {
			if onDay != nil {
				onDay(d)
			}
		}),
	)
	if err != nil {
		return scheduler.Result{}, err
	}
	return s.Run(ctx)
}
