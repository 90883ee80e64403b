package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/teesheet/internal/adapters/textio"
	"github.com/okian/teesheet/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func baseOptions() options {
	return options{seed: 42, retries: 200, parallelism: 2, swapPasses: 50}
}

func TestRun(t *testing.T) {
	convey.Convey("Given a numbered instance on stdin", t, func() {
		opts := baseOptions()
		opts.instance = "-"
		var out bytes.Buffer

		convey.Convey("When 2 groups of 4 are scheduled for 1 day", func() {
			err := run(context.Background(), opts, strings.NewReader("2 4 1\n"), &out, logger.Nop())

			convey.Convey("Then a zero-objective solution should be written", func() {
				convey.So(err, convey.ShouldBeNil)
				sol, err := textio.ReadSolution(&out)
				convey.So(err, convey.ShouldBeNil)
				convey.So(sol.Objective, convey.ShouldEqual, 0)
				convey.So(len(sol.Days), convey.ShouldEqual, 1)
				convey.So(len(sol.Days[0]), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the instance is malformed", func() {
			err := run(context.Background(), opts, strings.NewReader("2 four 1"), &out, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(out.Len(), convey.ShouldEqual, 0)
		})

		convey.Convey("When the context is cancelled before the first day", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			opts.timeLimit = time.Minute
			err := run(ctx, opts, strings.NewReader("2 4 3"), &out, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(out.Len(), convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given a YAML roster file carrying a seed", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "roster.yaml")
		yml := "golfers: [ann, bea, cal, dee, eve, fay]\ngroup_size: 3\ndays: 2\nseed: 9\n"
		convey.So(os.WriteFile(path, []byte(yml), 0o600), convey.ShouldBeNil)

		opts := baseOptions()
		opts.rosterFile = path

		convey.Convey("Then the file seed should be used unless -seed was given", func() {
			_, seed, err := loadRoster(opts, nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(seed, convey.ShouldEqual, int64(9))

			opts.seedSet = true
			_, seed, err = loadRoster(opts, nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(seed, convey.ShouldEqual, int64(42))
		})

		convey.Convey("Then the written solution should name the golfers", func() {
			var out bytes.Buffer
			convey.So(run(context.Background(), opts, nil, &out, logger.Nop()), convey.ShouldBeNil)
			sol, err := textio.ReadSolution(&out)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(sol.Days), convey.ShouldEqual, 2)
			seen := map[string]bool{}
			for _, g := range sol.Days[0] {
				for _, id := range g {
					seen[id] = true
				}
			}
			convey.So(len(seen), convey.ShouldEqual, 6)
			convey.So(seen["ann"], convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a missing roster file", t, func() {
		opts := baseOptions()
		opts.rosterFile = filepath.Join(t.TempDir(), "nope.yaml")
		_, _, err := loadRoster(opts, nil)
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestSolveOutput(t *testing.T) {
	convey.Convey("Given an existing output file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "solution.txt")
		convey.So(os.WriteFile(path, []byte("previous\n"), 0o600), convey.ShouldBeNil)

		opts := baseOptions()
		opts.instance = "-"
		opts.out = path

		convey.Convey("When the run is cancelled before it finishes", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := solve(ctx, opts, strings.NewReader("2 4 3"), &bytes.Buffer{}, logger.Nop())

			convey.Convey("Then the file should be left as it was", func() {
				convey.So(err, convey.ShouldNotBeNil)
				data, readErr := os.ReadFile(path)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual, "previous\n")

				entries, _ := os.ReadDir(dir)
				convey.So(len(entries), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the run succeeds", func() {
			err := solve(context.Background(), opts, strings.NewReader("2 4 1"), &bytes.Buffer{}, logger.Nop())

			convey.Convey("Then the file should hold the new solution", func() {
				convey.So(err, convey.ShouldBeNil)
				f, openErr := os.Open(path)
				convey.So(openErr, convey.ShouldBeNil)
				defer f.Close()
				sol, readErr := textio.ReadSolution(f)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(len(sol.Days), convey.ShouldEqual, 1)
			})
		})
	})

	convey.Convey("Given no output path", t, func() {
		opts := baseOptions()
		opts.instance = "-"
		var stdout bytes.Buffer

		convey.Convey("Then the solution should go to stdout", func() {
			convey.So(solve(context.Background(), opts, strings.NewReader("2 2 1"), &stdout, logger.Nop()), convey.ShouldBeNil)
			convey.So(stdout.String(), convey.ShouldStartWith, "0\n")
		})
	})
}
