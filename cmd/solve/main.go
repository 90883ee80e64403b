// Command solve schedules one roster offline and writes the solution file.
//
// The roster is read either as a numbered instance ("groups size days") or
// as a YAML roster file with named golfers. Defaults for the search come from
// the same TEESHEET_ configuration the service uses; flags override them.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/teesheet/internal/adapters/textio"
	"github.com/okian/teesheet/internal/config"
	"github.com/okian/teesheet/internal/domain/assign"
	"github.com/okian/teesheet/internal/domain/roster"
	"github.com/okian/teesheet/internal/domain/scheduler"
	"github.com/okian/teesheet/pkg/logger"
)

type options struct {
	instance    string
	rosterFile  string
	out         string
	seed        int64
	seedSet     bool
	retries     int
	parallelism int
	swapPasses  int
	timeLimit   time.Duration
}

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		die("load config: %v", err)
	}

	var opts options
	flag.StringVar(&opts.instance, "instance", "", "numbered instance file (\"groups size days\"); - for stdin")
	flag.StringVar(&opts.rosterFile, "roster", "", "YAML roster file with named golfers")
	flag.StringVar(&opts.out, "out", "", "solution output path (defaults to stdout)")
	flag.Int64Var(&opts.seed, "seed", cfg.DefaultSeed, "base seed for every attempt")
	flag.IntVar(&opts.retries, "retries", cfg.RetryLimit, "attempts per day before accepting repeats")
	flag.IntVar(&opts.parallelism, "parallelism", cfg.Parallelism, "attempts run concurrently per day")
	flag.IntVar(&opts.swapPasses, "swap-passes", cfg.SwapPasses, "repair passes per attempt")
	flag.DurationVar(&opts.timeLimit, "time-limit", 0, "abort the run after this long (0 disables)")
	logFormat := flag.String("log-format", cfg.LogFormat, "log format: text, json or console")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seedSet = true
		}
	})

	if (opts.instance == "") == (opts.rosterFile == "") {
		die("exactly one of -instance or -roster is required")
	}

	if err := logger.InitWithFormat(*logFormat, os.Stderr); err != nil {
		die("init logging: %v", err)
	}
	if err := logger.SetLevelString(*logLevel); err != nil {
		die("set log level: %v", err)
	}

	if err := solve(context.Background(), opts, os.Stdin, os.Stdout, logger.Named("solve")); err != nil {
		die("%v", err)
	}
}

// solve runs the schedule into memory and only then writes it to opts.out,
// or to stdout when no path is given. A failed run leaves opts.out untouched.
func solve(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer, log logger.Logger) error {
	var buf bytes.Buffer
	if err := run(ctx, opts, stdin, &buf, log); err != nil {
		return err
	}
	if opts.out == "" {
		_, err := buf.WriteTo(stdout)
		return err
	}
	return writeFileAtomic(opts.out, buf.Bytes())
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// run loads the roster described by opts, schedules it and writes the
// solution to out.
func run(ctx context.Context, opts options, stdin io.Reader, out io.Writer, log logger.Logger) error {
	r, seed, err := loadRoster(opts, stdin)
	if err != nil {
		return err
	}

	if opts.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeLimit)
		defer cancel()
	}

	s, err := scheduler.New(r,
		scheduler.WithSeed(seed),
		scheduler.WithRetryLimit(opts.retries),
		scheduler.WithParallelism(opts.parallelism),
		scheduler.WithAssigner(assign.New(assign.WithSwapPasses(opts.swapPasses))),
		scheduler.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	res, err := s.Run(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("time limit reached after %d of %d days", res.Schedule.Len(), r.Days())
		}
		return fmt.Errorf("run: %w", err)
	}

	for _, c := range res.Conflicts {
		log.Warn(ctx, "repeated pairing",
			logger.Int("day", c.Day),
			logger.String("a", c.Pair.A),
			logger.String("b", c.Pair.B),
			logger.Int("prior_day", c.PriorDay),
		)
	}
	log.Info(ctx, "schedule ready",
		logger.String("state", res.State.String()),
		logger.Int("objective", res.Schedule.Objective()),
		logger.Int64("seed", seed),
		logger.Duration("elapsed", res.Elapsed),
	)

	if err := textio.WriteSchedule(out, res.Schedule); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}
	return nil
}

// loadRoster reads the roster named by opts. A seed in a roster file is used
// unless -seed was given explicitly.
func loadRoster(opts options, stdin io.Reader) (*roster.Roster, int64, error) {
	if opts.instance != "" {
		src, closeFn, err := open(opts.instance, stdin)
		if err != nil {
			return nil, 0, err
		}
		defer closeFn()
		inst, err := textio.ReadInstance(src)
		if err != nil {
			return nil, 0, err
		}
		r, err := inst.Roster()
		return r, opts.seed, err
	}

	src, closeFn, err := open(opts.rosterFile, stdin)
	if err != nil {
		return nil, 0, err
	}
	defer closeFn()
	rf, err := textio.ReadRoster(src)
	if err != nil {
		return nil, 0, err
	}
	seed := opts.seed
	if rf.Seed != nil && !opts.seedSet {
		seed = *rf.Seed
	}
	r, err := rf.Roster()
	return r, seed, err
}

func open(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
